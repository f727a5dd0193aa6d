package distconfig

import "strings"

// StaticOrigin is the object-store origin serving immutable assets. Access
// is always signed; the bucket never allows public reads.
type StaticOrigin struct {
	ID           string `json:"id" yaml:"id"`
	Bucket       string `json:"bucket" yaml:"bucket"`
	SignedAccess bool   `json:"signed_access" yaml:"signed_access"`
}

// StaticOriginOverride customizes the static origin.
type StaticOriginOverride struct {
	Replace *StaticOrigin     `json:"replace,omitempty" yaml:"replace,omitempty"`
	Props   StaticOriginProps `json:"props,omitempty" yaml:"props,omitempty"`
}

// StaticOriginProps carries partial static-origin fields.
type StaticOriginProps struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// DynamicOrigin is the HTTP origin pointing at the compute endpoint.
type DynamicOrigin struct {
	ID                 string         `json:"id" yaml:"id"`
	Domain             string         `json:"domain" yaml:"domain"`
	Protocol           OriginProtocol `json:"protocol" yaml:"protocol"`
	ReadTimeoutSeconds int            `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
}

// DynamicOriginOverride customizes the dynamic origin.
type DynamicOriginOverride struct {
	Replace *DynamicOrigin     `json:"replace,omitempty" yaml:"replace,omitempty"`
	Props   DynamicOriginProps `json:"props,omitempty" yaml:"props,omitempty"`
}

// DynamicOriginProps carries partial dynamic-origin fields.
type DynamicOriginProps struct {
	ID                 string         `json:"id,omitempty" yaml:"id,omitempty"`
	Domain             string         `json:"domain,omitempty" yaml:"domain,omitempty"`
	Protocol           OriginProtocol `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	ReadTimeoutSeconds *int           `json:"read_timeout_seconds,omitempty" yaml:"read_timeout_seconds,omitempty"`
}

const defaultOriginReadTimeoutSeconds = 30

// BuildStaticOrigin derives the object-store origin for the given bucket.
func BuildStaticOrigin(app, bucket string, ov StaticOriginOverride) StaticOrigin {
	if ov.Replace != nil {
		return *ov.Replace
	}
	return mergeStaticOrigin(StaticOrigin{
		ID:           app + "-static-origin",
		Bucket:       bucket,
		SignedAccess: true,
	}, ov.Props)
}

// BuildDynamicOrigin derives the HTTP origin for the compute endpoint.
// Function endpoints only speak HTTPS; a plain container endpoint falls back
// to HTTP unless a transport certificate is configured.
func BuildDynamicOrigin(app, domain string, topology ComputeTopology, hasCertificate bool, ov DynamicOriginOverride) DynamicOrigin {
	if ov.Replace != nil {
		return *ov.Replace
	}
	protocol := OriginHTTPOnly
	if topology.IsFunction() || hasCertificate {
		protocol = OriginHTTPSOnly
	}
	return mergeDynamicOrigin(DynamicOrigin{
		ID:                 app + "-server-origin",
		Domain:             domain,
		Protocol:           protocol,
		ReadTimeoutSeconds: defaultOriginReadTimeoutSeconds,
	}, ov.Props)
}

func mergeStaticOrigin(base StaticOrigin, props StaticOriginProps) StaticOrigin {
	out := base
	if strings.TrimSpace(props.ID) != "" {
		out.ID = props.ID
	}
	if strings.TrimSpace(props.Bucket) != "" {
		out.Bucket = props.Bucket
	}
	return out
}

func mergeDynamicOrigin(base DynamicOrigin, props DynamicOriginProps) DynamicOrigin {
	out := base
	if strings.TrimSpace(props.ID) != "" {
		out.ID = props.ID
	}
	if strings.TrimSpace(props.Domain) != "" {
		out.Domain = props.Domain
	}
	if strings.TrimSpace(string(props.Protocol)) != "" {
		out.Protocol = props.Protocol
	}
	if props.ReadTimeoutSeconds != nil {
		out.ReadTimeoutSeconds = *props.ReadTimeoutSeconds
	}
	return out
}

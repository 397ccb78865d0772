package store

import (
	"time"

	"github.com/okravets/rozklad/internal/config"
)

// Policy is the resolved caching decision for one data type.
type Policy struct {
	DataType string
	Tier     TierKind
	TTL      time.Duration
	Prefix   string
}

// Resolver maps a data-type tag to its cache policy. Resolution is total:
// unknown data types get the default session/1h policy instead of an error.
type Resolver struct {
	namespace string
	policies  map[string]config.CachePolicy
}

func NewResolver(cfg *config.Config) *Resolver {
	ns := cfg.University.Code
	if ns == "" {
		ns = "rozklad"
	}
	return &Resolver{namespace: ns, policies: cfg.Cache}
}

// Namespace returns the key prefix shared by every entry this system owns,
// used to clear the whole cache without touching foreign keys.
func (r *Resolver) Namespace() string {
	return r.namespace + "_"
}

func (r *Resolver) Resolve(dataType string) Policy {
	p := Policy{
		DataType: dataType,
		Tier:     Session,
		TTL:      time.Hour,
		Prefix:   r.namespace + "_" + dataType,
	}

	cp, ok := r.policies[dataType]
	if !ok {
		return p
	}

	if cp.Tier == "persistent" {
		p.Tier = Persistent
	}
	p.TTL = cp.TTLDuration()
	if cp.Prefix != "" {
		p.Prefix = r.namespace + "_" + cp.Prefix
	}
	return p
}

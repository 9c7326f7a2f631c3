package networks

import (
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

// Registry selects a parser by network kind.
type Registry struct {
	parsers map[domain.NetworkKind]ports.NetworkParser
}

func NewRegistry(parsers ...ports.NetworkParser) *Registry {
	r := &Registry{parsers: make(map[domain.NetworkKind]ports.NetworkParser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Kind()] = p
	}
	return r
}

// DefaultRegistry knows every supported network.
func DefaultRegistry() *Registry {
	return NewRegistry(AWINParser{}, CJParser{}, ShareASaleParser{})
}

func (r *Registry) Parser(kind domain.NetworkKind) (ports.NetworkParser, error) {
	p, ok := r.parsers[kind]
	if !ok {
		return nil, domain.ErrUnsupportedNetwork
	}
	return p, nil
}

package domain

import "strings"

// NetworkKind tags the affiliate network a payload came from.
type NetworkKind string

const (
	NetworkAWIN       NetworkKind = "awin"
	NetworkCJ         NetworkKind = "cj"
	NetworkShareASale NetworkKind = "shareasale"
)

func ParseNetworkKind(raw string) (NetworkKind, error) {
	switch kind := NetworkKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case NetworkAWIN, NetworkCJ, NetworkShareASale:
		return kind, nil
	default:
		return "", ErrUnsupportedNetwork
	}
}

func AllNetworks() []NetworkKind {
	return []NetworkKind{NetworkAWIN, NetworkCJ, NetworkShareASale}
}

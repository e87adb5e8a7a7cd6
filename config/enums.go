package config

import (
	"fmt"
	"strings"
)

// Kind of legislative document being processed. Names are kept in kindNames
// in constant order.
type Kind int

const (
	KindAct Kind = iota
	KindSI
)

var kindNames = []string{"act", "si"}

func (k Kind) String() string {
	if k.IsValid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsValid reports whether k is one of known kinds.
func (k Kind) IsValid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// KindNames returns list of possible string values of Kind.
func KindNames() []string {
	return append([]string(nil), kindNames...)
}

// ParseKind attempts to convert a string to Kind, case insensitive.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}
	return Kind(0), fmt.Errorf("%s is not a valid Kind, try [%s]", name, strings.Join(kindNames, ", "))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Prefix returns identifier prefix of documents of this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindAct:
		return "ukgpa"
	case KindSI:
		return "uksi"
	default:
		// this should never happen
		panic("unsupported document kind")
	}
}

package variant

import (
	"fmt"
	"sort"
	"strings"
)

// Variant names the storage slots one product flavour uses. Both flavours run
// the same engine; only the keys differ.
type Variant struct {
	Name       string
	SessionKey string
	LogKey     string
	IntakeKey  string
}

var (
	LockIn = Variant{
		Name:       "lockin",
		SessionKey: "focusSession",
		LogKey:     "lockin:logs",
		IntakeKey:  "lockin:intakes",
	}
	Reactor = Variant{
		Name:       "reactor",
		SessionKey: "flowReactorSession",
		LogKey:     "flowReactor:logs",
		IntakeKey:  "flowReactor:intakes",
	}
)

var known = map[string]Variant{
	LockIn.Name:  LockIn,
	Reactor.Name: Reactor,
}

func Lookup(name string) (Variant, error) {
	v, ok := known[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return v, nil
}

func Names() []string {
	out := make([]string, 0, len(known))
	for name := range known {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

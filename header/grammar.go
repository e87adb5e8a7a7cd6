// Package header extracts typed header metadata from the front of a fragment
// and folds it into legislative document objects.
//
// Header layout of a document is expressed as a grammar: an ordered list of
// blocks, each block holding one or more rules. Within a block the first rule
// whose probe matches the front of remaining text runs, a rule without probe
// always runs. Block where no rule applies is skipped, which is how optional
// parts (ISBN line, print identifiers) and dialect alternatives are expressed.
// Steps of a running rule are mandatory and any mismatch aborts the document.
package header

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"lawparse/fragment"
)

// Rule is an ordered list of steps guarded by optional probe.
type Rule struct {
	Name  string
	Probe *regexp.Regexp
	Steps []fragment.Step
}

// Block is a set of alternative rules.
type Block []Rule

// Grammar is an ordered list of blocks describing header of a document kind.
type Grammar struct {
	Name   string
	Blocks []Block
}

// Always returns block with a single unconditional rule.
func Always(name string, steps ...fragment.Step) Block {
	return Block{{Name: name, Steps: steps}}
}

// Optional returns block which runs only when probe matches.
func Optional(name, probe string, steps ...fragment.Step) Block {
	return Block{{Name: name, Probe: fragment.Anchor(probe), Steps: steps}}
}

// When returns guarded rule to be used as one of block alternatives.
func When(name, probe string, steps ...fragment.Step) Rule {
	return Rule{Name: name, Probe: fragment.Anchor(probe), Steps: steps}
}

// Assemble runs grammar against fragment, consuming header from the front of
// its text and recording header fields.
func Assemble(f *fragment.Fragment, g *Grammar, log *zap.Logger) error {
	for i, block := range g.Blocks {
		rule := selectRule(f, block)
		if rule == nil {
			log.Debug("Header block skipped", zap.String("grammar", g.Name), zap.Int("block", i), zap.String("rule", block[0].Name))
			continue
		}
		for _, step := range rule.Steps {
			if err := f.Nibble(step, log); err != nil {
				return fmt.Errorf("%s header, rule %q: %w", g.Name, rule.Name, err)
			}
		}
	}
	return nil
}

func selectRule(f *fragment.Fragment, block Block) *Rule {
	for i := range block {
		if block[i].Probe == nil || f.Peek(block[i].Probe) {
			return &block[i]
		}
	}
	return nil
}

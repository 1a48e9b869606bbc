package verify

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseConfig(t *testing.T) {
	g := NewWithT(t)
	c, err := ParseConfig([]byte(`
max_errors: 20
disable: [operand-order, return-value]
allow_open_blocks: true
`))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c).To(Equal(Config{
		MaxErrors:       20,
		Disable:         []string{CheckOperandOrder, CheckReturnValue},
		AllowOpenBlocks: true,
	}))
	g.Expect(c.enabled(CheckOperandOrder)).To(BeFalse())
	g.Expect(c.enabled(CheckBlockSealed)).To(BeFalse())
	g.Expect(c.enabled(CheckEntryBlock)).To(BeTrue())
}

func TestParseEmptyConfig(t *testing.T) {
	g := NewWithT(t)
	c, err := ParseConfig(nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c).To(Equal(DefaultConfig()))
	for _, name := range Checks {
		g.Expect(c.enabled(name)).To(BeTrue(), name)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown check", "disable: [no-such-check]", `unknown check "no-such-check"`},
		{"unknown key", "max_error: 3", "max_error"},
		{"negative limit", "max_errors: -1", "must not be negative"},
		{"bad type", "max_errors: lots", "decode verifier config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := LoadConfig(strings.NewReader(tt.input))
			g.Expect(err).To(MatchError(ContainSubstring(tt.want)))
		})
	}
}

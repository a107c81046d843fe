package fuzzy

import (
	"bufio"
	"os"
	"strings"

	"github.com/glaslos/tlsh"
)

type TLSHHasher struct{}

func (h TLSHHasher) Name() string {
	return "tlsh"
}

func (h TLSHHasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	hash, err := tlsh.HashReader(reader)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// Match ignores case and the "T1" version prefix, which newer sandbox
// builds prepend to TLSH digests and older ones do not.
func (h TLSHHasher) Match(computed, reported string) bool {
	norm := func(s string) string {
		s = strings.ToUpper(strings.TrimSpace(s))
		return strings.TrimPrefix(s, "T1")
	}
	return norm(computed) != "" && norm(computed) == norm(reported)
}

func init() {
	Register(TLSHHasher{})
}

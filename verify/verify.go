// Package verify cross-checks a decoded report against the analyzed
// sample on disk: the hash set the report claims for its target file
// is recomputed locally and compared per algorithm. A mismatch means
// the report and the sample do not belong together.
package verify

import (
	"strings"

	"capereport/fuzzy"
	"capereport/hasher"
	"capereport/report"
)

// Result is one algorithm's comparison outcome.
type Result struct {
	Algorithm string `json:"algorithm"`
	Reported  string `json:"reported"`
	Computed  string `json:"computed"`
	Match     bool   `json:"match"`
}

// Sample recomputes the sample file's digests and compares them to
// the report's target-file hash set. Hash fields the report left
// empty are skipped; ssdeep is not recomputed locally and rh_hash has
// no stable reference implementation, so neither is checked.
func Sample(path string, f *report.File) []Result {
	reported := map[string]string{
		"crc32":    f.CRC32,
		"md5":      f.MD5,
		"sha1":     f.SHA1,
		"sha256":   f.SHA256,
		"sha512":   f.SHA512,
		"sha3_384": f.SHA3384,
	}

	computed := hasher.ComputeHashes(path, hasher.Algorithms)

	var results []Result
	for _, algo := range hasher.Algorithms {
		want := strings.TrimSpace(reported[algo])
		if want == "" {
			continue
		}
		got := computed[algo]
		results = append(results, Result{
			Algorithm: algo,
			Reported:  want,
			Computed:  got,
			Match:     got != "" && strings.EqualFold(got, want),
		})
	}

	if want := strings.TrimSpace(f.TLSH); want != "" {
		if h, ok := fuzzy.Lookup("tlsh"); ok {
			got, err := h.HashFile(path)
			if err == nil {
				results = append(results, Result{
					Algorithm: "tlsh",
					Reported:  want,
					Computed:  got,
					Match:     h.Match(got, want),
				})
			}
		}
	}

	return results
}

// Mismatches filters results down to failed comparisons.
func Mismatches(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Match {
			out = append(out, r)
		}
	}
	return out
}

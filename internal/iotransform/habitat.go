package iotransform

import (
	"strings"

	"github.com/SPI-Birds/metadata/pkg/record"
)

// habitatCodes unions the selected habitat codes with the expansion of
// the free-text detailed code, deduplicated in derivation order.
func (t *iotransform) habitatCodes(rec *record.Submission) []string {
	var res []string
	seen := make(map[string]struct{})
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		res = append(res, code)
	}

	for _, code := range rec.HabitatCodes {
		add(code)
	}
	for _, code := range t.expand(rec.HabitatOther) {
		add(code)
	}
	return res
}

// expand lists a detailed code and all its ancestors down to the
// top-level group, derived by truncating trailing characters. Children of
// the exception root are not hierarchical by truncation: only the root
// itself is implied.
func (t *iotransform) expand(code string) []string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}

	root := code[:1]
	if root == t.habitats.ExceptionRoot {
		if len(code) == 1 {
			return []string{code}
		}
		return []string{code, root}
	}

	var res []string
	for cur := code; cur != ""; {
		res = append(res, cur)
		cur = strings.TrimRight(cur[:len(cur)-1], ".")
	}
	return res
}

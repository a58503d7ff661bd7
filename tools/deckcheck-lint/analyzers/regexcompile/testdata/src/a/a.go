package a

import (
	"regexp"
	"strings"
)

const moneyPattern = `\$\d+(\.\d+)?[KMB]?`

var percentRe = regexp.MustCompile(`\d+(\.\d+)?%`)

func bad(text string) []string {
	re := regexp.MustCompile(`\d{4}`) // want "regexp.MustCompile with a constant pattern in bad"
	return re.FindAllString(text, -1)
}

func badConst(text string) bool {
	re, err := regexp.Compile(moneyPattern) // want "regexp.Compile with a constant pattern in badConst"
	return err == nil && re.MatchString(text)
}

func goodGlobal(text string) []string {
	return percentRe.FindAllString(text, -1)
}

func goodKeywords(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

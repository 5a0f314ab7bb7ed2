package checker

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/obmakesomething/redpen/model"
)

// rule is a single local correction pattern. Correct and Help describe the
// fix; Category drives the highlight color downstream.
type rule struct {
	pattern  *regexp.Regexp
	correct  string
	help     string
	category model.Category
}

// defaultRules covers the most frequent Korean mistakes. This is the last
// tier of the chain: it runs offline, so a document still gets a basic
// check when every external service is down.
var defaultRules = []rule{
	{regexp.MustCompile(`되요`), "돼요", "'되다'의 활용형은 '돼요'입니다", model.CategorySpell},
	{regexp.MustCompile(`갈께요`), "갈게요", "'게'가 올바른 표현입니다", model.CategorySpell},
	{regexp.MustCompile(`할께요`), "할게요", "'게'가 올바른 표현입니다", model.CategorySpell},
	{regexp.MustCompile(`올께요`), "올게요", "'게'가 올바른 표현입니다", model.CategorySpell},
	{regexp.MustCompile(`먹을께요`), "먹을게요", "'게'가 올바른 표현입니다", model.CategorySpell},
	{regexp.MustCompile(`안되면`), "안 되면", "'안 되다'는 띄어 씁니다", model.CategorySpacing},
	{regexp.MustCompile(`안된다`), "안 된다", "'안 되다'는 띄어 씁니다", model.CategorySpacing},
	{regexp.MustCompile(`할수있`), "할 수 있", "'수 있다'는 띄어 씁니다", model.CategorySpacing},
	{regexp.MustCompile(`할수없`), "할 수 없", "'수 없다'는 띄어 씁니다", model.CategorySpacing},
	{regexp.MustCompile(`왠만하면`), "웬만하면", "'웬만하면'이 맞습니다", model.CategoryTypo},
	{regexp.MustCompile(`금새`), "금세", "'금세'가 맞습니다", model.CategoryTypo},
}

// Rules is the offline rule-based checker.
type Rules struct {
	rules []rule
}

// NewRules creates a rule checker with the built-in rule set.
func NewRules() *Rules {
	return &Rules{rules: defaultRules}
}

// Name implements Checker.
func (r *Rules) Name() string { return "rules" }

// Check implements Checker. It never fails; an empty result means no rule
// matched.
func (r *Rules) Check(_ context.Context, text string) ([]model.SpellError, error) {
	var errs []model.SpellError
	for _, rl := range r.rules {
		for _, loc := range rl.pattern.FindAllStringIndex(text, -1) {
			matched := text[loc[0]:loc[1]]
			errs = append(errs, model.SpellError{
				Wrong:    matched,
				Correct:  rl.correct,
				Help:     rl.help,
				Category: rl.category,
				Position: utf8.RuneCountInString(text[:loc[0]]),
				Length:   utf8.RuneCountInString(matched),
			})
		}
	}
	return errs, nil
}

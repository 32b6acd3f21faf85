package conversation

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const (
	welcomeMsg = `
		Welcome to %s recipes. I sense the aroma of a freshly cooked meal coming!
		What would you like to cook today? We currently have the options of %s.`

	promptMsg = `
		Sorry, I didn't get that. What would you like to cook today?
		We currently have the options of %s.`

	helpMsg = `
		During the recipe say "next", "previous", or "repeat" to navigate,
		or say "Guidelines", "Ingredients", or "Steps" to skip to that stage. Good luck, Chef!`

	confirmMsg = `
		We'll make a fine chef out of you in no time. Let's get started.
		We'll be cooking %s by %s today. %s. Would you like to continue?`

	guidelinesIntroMsg = `
		Before we start, please wash your hands, then listen to the following guidelines.
		Say "next", "repeat", and "previous" to navigate during the recipe.
		Simply say "Guidelines", "Ingredients", or "Steps" to skip to that stage:`

	guidelinesClampMsg = `
		I'm afraid we can only go to the "next" guideline from here, please reconsider?
		Don't make me get out the wooden spatula.`

	ingredientsIntroMsg = `
		You'll need to prepare the following ingredients.
		Say "next" to continue:`

	ingredientsFirstMsg = `
		This was the first ingredient. Say "previous" again to repeat the guidelines,
		or say "next" to continue.`

	stepsIntroMsg = `
		Time to start cooking!
		Say "next" to continue:`

	stepsFirstMsg = `
		This was the first step. Say "previous" again to repeat the ingredients,
		or say "next" to continue.`

	stepMsg = `Step %d: %s`

	completeMsg = `
		You should have a lovely home cooked plate of %s in front of you! Bravo Chef!
		I wish I was there to taste your creation, sadly I live in a virtual world where I can only dream of such fine meals as yours.
		See you next time, from your cooking companion, %s recipes.`
)

const (
	chipHelp        = "Get help"
	chipMoreRecipes = "More recipes"
)

// speech dedents a message template and fills in args. A template line
// that ends a sentence keeps its line break; other wrapped lines are
// joined with a space.
func speech(tmpl string, args ...any) string {
	txt := dedent.Dedent(strings.Trim(tmpl, "\n"))
	lines := strings.Split(txt, "\n")
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1]
			if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, "!") || strings.HasSuffix(prev, "?") {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(l)
	}
	if len(args) == 0 {
		return b.String()
	}
	return fmt.Sprintf(b.String(), args...)
}

// quoteList renders options as `"a", "b", or "c"`
func quoteList(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " or " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
}

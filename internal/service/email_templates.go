package service

import (
	"fmt"
	"strings"

	"github.com/caddieai/caddie/internal/model"
)

// Each template returns the subject and a Markdown body.
func welcomeEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your caddie is ready. Pick a course, start a round and we'll track every hole with you.

Ask the AI caddie anything from club choice to course strategy while you play.

Best,
The %s Team`, name, appName)

	return subject, body
}

func passwordChangedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`Hi %s,

The password for your account was just changed and all other devices were signed out.

If this wasn't you, reset your password immediately and contact support.

Best,
The %s Team`, name, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

All your rounds, scores, chat history and uploaded photos have been removed.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}

func roundSummaryEmailTemplate(name, courseName string, round *model.Round, stats *model.RoundStats, appName string) (string, string) {
	subject := fmt.Sprintf("Your round at %s", courseName)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Here is your scorecard from **%s** on %s.\n\n", courseName, round.RoundDate.Format("Jan 2, 2006"))
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Holes played | %d |\n", stats.HolesPlayed)
	fmt.Fprintf(&b, "| Total score | %d (%s) |\n", stats.TotalScore, formatToPar(stats.ScoreToPar))
	fmt.Fprintf(&b, "| Putts | %d |\n", stats.TotalPutts)
	if stats.FairwayAttempts > 0 {
		fmt.Fprintf(&b, "| Fairways | %d/%d |\n", stats.FairwaysHit, stats.FairwayAttempts)
	}
	fmt.Fprintf(&b, "| Greens in regulation | %d |\n", stats.GreensInReg)
	fmt.Fprintf(&b, "\nBirdies or better: %d, pars: %d, bogeys: %d\n",
		stats.Distribution.Birdies+stats.Distribution.EagleOrBetter, stats.Distribution.Pars, stats.Distribution.Bogeys)
	fmt.Fprintf(&b, "\nSee you on the course,\nThe %s Team", appName)

	return subject, b.String()
}

func formatToPar(toPar int) string {
	switch {
	case toPar == 0:
		return "E"
	case toPar > 0:
		return fmt.Sprintf("+%d", toPar)
	default:
		return fmt.Sprintf("%d", toPar)
	}
}

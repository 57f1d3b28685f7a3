// Package tips holds the rotating hints shown on the dashboard.
package tips

import "github.com/rnwolfe/habits/internal/calendar"

var all = []string{
	"`habits skip --recover-on <date>` keeps a streak alive if you make the day up.",
	"`habits timer` runs a pomodoro and logs the minutes when it ends.",
	"`habits timer --stopwatch` counts up for open-ended sessions.",
	"`habits done --minutes 20` adds time to a day you already checked off.",
	"`habits done --date yesterday` catches up on a day you forgot to log.",
	"`habits show --date 2025-01-31` shows the streak as it stood on that day.",
	"`habits rate --view month` shows how much of this month you've kept up.",
	"`habits rate --month 2025-02` rates a past month.",
	"`habits plan --date tomorrow` puts a habit on tomorrow's list.",
	"`habits undo` removes today's record if you logged the wrong habit.",
	"`habits archive <habit>` hides a habit without losing its history.",
	"`habits color <habit> \"#50C878\"` gives a habit its own color.",
	"`habits backup export habits.age` writes an encrypted copy of everything.",
	"`habits config set calendar.timezone Europe/Berlin` moves the day boundary.",
	"`habits recompute` rebuilds levels after you edit the [levels] tables.",
	"Leave out the habit name and the last one you used is picked.",
}

// Daily returns the tip for day. It stays the same all day.
func Daily(day calendar.Day) string {
	return all[dayIndex(day)%len(all)]
}

func dayIndex(day calendar.Day) int {
	return day.Year()*366 + day.Time(nil).YearDay()
}

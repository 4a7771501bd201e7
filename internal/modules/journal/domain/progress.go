package domain

import (
	"sort"
	"time"
)

type Role struct {
	Key         string
	Label       string
	XP          int
	Description string
}

// Roles are ordered by ascending XP threshold.
var Roles = []Role{
	{Key: "focus-initiate", Label: "Focus Initiate", XP: 0, Description: "Started your focus practice."},
	{Key: "deep-worker-i", Label: "Deep Worker I", XP: 250, Description: "Completed multiple focus sessions."},
	{Key: "deep-worker-ii", Label: "Deep Worker II", XP: 500, Description: "Maintained consistency across weeks."},
	{Key: "flow-architect", Label: "Flow Architect", XP: 1000, Description: "Leading the community with relentless focus."},
}

type Progress struct {
	TotalXP      int
	TotalMinutes int
	Sessions     int
	StreakDays   int
	Current      Role
	Next         *Role
	XPToNext     int
}

// ComputeProgress summarises the log as of now. The streak counts consecutive
// UTC days with at least one session, ending today.
func ComputeProgress(entries []Entry, now time.Time) Progress {
	p := Progress{Sessions: len(entries)}
	for _, e := range entries {
		if e.XPAwarded != nil {
			p.TotalXP += *e.XPAwarded
		}
		p.TotalMinutes += e.LengthMinutes
	}
	p.Current = Roles[0]
	for _, role := range Roles {
		if p.TotalXP >= role.XP {
			p.Current = role
		}
	}
	for i := range Roles {
		if Roles[i].XP > p.TotalXP {
			next := Roles[i]
			p.Next = &next
			p.XPToNext = next.XP - p.TotalXP
			break
		}
	}
	p.StreakDays = streak(entries, now)
	return p
}

func streak(entries []Entry, now time.Time) int {
	seen := map[string]struct{}{}
	for _, e := range entries {
		seen[day(e.StartedAt)] = struct{}{}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	count := 0
	cursor := now.UTC()
	for _, d := range days {
		switch {
		case d == day(cursor):
			count++
			cursor = cursor.AddDate(0, 0, -1)
		case d < day(cursor):
			return count
		}
	}
	return count
}

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

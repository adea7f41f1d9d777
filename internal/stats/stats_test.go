package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday of ISO week 2025-W11 (Mon 10 March .. Sun 16 March).
var refNow = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func sess(subject, chapter string, at time.Time, d time.Duration) domain.Session {
	return domain.Session{
		ID:         fmt.Sprintf("%s-%d", subject, at.Unix()),
		Timestamp:  at,
		Subject:    subject,
		Chapter:    chapter,
		DurationMs: d.Milliseconds(),
	}
}

func day(offset int, hour int) time.Time {
	mon := time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)
	return mon.AddDate(0, 0, offset)
}

func TestTotalsBySubject_TiesKeepFirstSeen(t *testing.T) {
	log := []domain.Session{
		sess("C", "", day(0, 9), time.Hour),
		sess("B", "", day(0, 10), 2*time.Hour),
		sess("A", "", day(0, 11), 2*time.Hour),
	}

	totals := TotalsBySubject(log)
	require.Len(t, totals, 3)
	assert.Equal(t, "B", totals[0].Subject)
	assert.Equal(t, "A", totals[1].Subject)
	assert.Equal(t, "C", totals[2].Subject)
	assert.InDelta(t, 2.0, totals[0].Hours, 1e-9)
	assert.InDelta(t, 1.0, totals[2].Hours, 1e-9)
}

func TestTotalsBySubject_SumsAreOrderIndependent(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(0, 9), 30*time.Minute),
		sess("Bio", "", day(1, 9), 45*time.Minute),
		sess("Math", "", day(2, 9), 90*time.Minute),
	}
	reversed := Newest(log)

	sums := func(in []SubjectTotal) map[string]float64 {
		out := make(map[string]float64)
		for _, st := range in {
			out[st.Subject] = st.Hours
		}
		return out
	}
	assert.Equal(t, sums(TotalsBySubject(log)), sums(TotalsBySubject(reversed)))
}

func TestTotalsBySubject_ExcludesZeroTotals(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(0, 9), time.Hour),
		{Subject: "Empty", Timestamp: day(0, 10)},
	}
	totals := TotalsBySubject(log)
	require.Len(t, totals, 1)
	assert.Equal(t, "Math", totals[0].Subject)
	assert.Equal(t, []string{"Math", "Empty"}, SubjectsByFrequency(log), "zero subjects keep their rank")
}

func TestWeekOf_ISOBoundaries(t *testing.T) {
	cases := []struct {
		at   time.Time
		want WeekKey
	}{
		{time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC), WeekKey{2025, 1}},
		{time.Date(2021, 1, 1, 8, 0, 0, 0, time.UTC), WeekKey{2020, 53}},
		{time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC), WeekKey{2025, 11}},
		{time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), WeekKey{2025, 12}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WeekOf(tc.at), "at=%s", tc.at)
	}
	assert.Equal(t, "2025-S1", WeekKey{2025, 1}.String())
}

func TestWeekdayIndex_MondayZero(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(day(0, 9)))
	assert.Equal(t, 2, WeekdayIndex(refNow))
	assert.Equal(t, 6, WeekdayIndex(day(6, 9)))
	assert.Equal(t, day(0, 0), WeekStart(refNow))
}

func TestTotalsByWeek_FirstSeenOrder(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(7, 9), time.Hour),
		sess("Math", "", day(0, 9), 30*time.Minute),
		sess("Bio", "", day(8, 9), time.Hour),
	}
	weeks := TotalsByWeek(log, time.UTC)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-S12", weeks[0].Key.String())
	assert.InDelta(t, 2.0, weeks[0].Hours, 1e-9)
	assert.Equal(t, "2025-S11", weeks[1].Key.String())
	assert.InDelta(t, 0.5, weeks[1].Hours, 1e-9)
}

func TestTotalsByWeek_UsesLocation(t *testing.T) {
	// Sunday 23:30 UTC is already Monday in UTC+2.
	at := time.Date(2025, 3, 16, 23, 30, 0, 0, time.UTC)
	log := []domain.Session{sess("Math", "", at, time.Hour)}

	assert.Equal(t, WeekKey{2025, 11}, TotalsByWeek(log, time.UTC)[0].Key)
	assert.Equal(t, WeekKey{2025, 12}, TotalsByWeek(log, time.FixedZone("UTC+2", 2*3600))[0].Key)
}

func TestThisWeekByDaySubject(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(0, 9), time.Hour),
		sess("Bio", "", day(6, 20), 30*time.Minute),
		sess("Math", "", day(2, 9), 2*time.Hour),
		sess("Chem", "", day(-1, 9), 5*time.Hour),                                   // previous week
		sess("Math", "", time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), 4*time.Hour), // same week number, other year
	}

	m := ThisWeekByDaySubject(log, refNow)
	assert.Equal(t, WeekKey{2025, 11}, m.Week)
	assert.Equal(t, DayLabels, m.Days)
	require.Len(t, m.Rows, 2, "subjects without time this week are omitted")

	assert.Equal(t, "Math", m.Rows[0].Subject)
	assert.InDelta(t, 1.0, m.Rows[0].Hours[0], 1e-9)
	assert.InDelta(t, 2.0, m.Rows[0].Hours[2], 1e-9)
	assert.InDelta(t, 3.0, m.Rows[0].Total(), 1e-9)

	assert.Equal(t, "Bio", m.Rows[1].Subject)
	assert.InDelta(t, 0.5, m.Rows[1].Hours[6], 1e-9)
	assert.Equal(t, ColorFor("Bio", SubjectsByFrequency(log)), m.Rows[1].Color)
}

func TestTopSubjectsThisWeek_RanksSubjectsAndChapters(t *testing.T) {
	log := []domain.Session{
		sess("Math", "Algebra", day(0, 9), 20*time.Minute),
		sess("Math", "Geometry", day(0, 10), 40*time.Minute),
		sess("Bio", "Cells", day(1, 9), 30*time.Minute),
		sess("Chem", "", day(1, 10), 90*time.Minute),
		sess("Hist", "Rome", day(1, 11), 10*time.Minute),
		sess("Math", "Algebra", day(-3, 9), 10*time.Hour), // previous week
	}
	subjects := []domain.Subject{
		{Name: "Chem", Chapters: []string{"Acids", "Bases", "Salts"}},
	}

	top := TopSubjectsThisWeek(log, subjects, refNow, 3)
	require.Len(t, top, 3)

	assert.Equal(t, "Chem", top[0].Subject)
	assert.Equal(t, int64(5400), top[0].Seconds)
	assert.True(t, top[0].FromCatalog)
	assert.Equal(t, []ChapterTime{{Name: "Acids"}, {Name: "Bases"}}, top[0].Chapters)

	assert.Equal(t, "Math", top[1].Subject)
	assert.Equal(t, int64(3600), top[1].Seconds)
	assert.False(t, top[1].FromCatalog)
	assert.Equal(t, []ChapterTime{{"Geometry", 2400}, {"Algebra", 1200}}, top[1].Chapters)

	assert.Equal(t, "Bio", top[2].Subject)
	assert.Equal(t, ColorFor("Math", SubjectsByFrequency(log)), top[1].Color)
}

func TestTopSubjectsThisWeek_CapsChaptersAtThree(t *testing.T) {
	var log []domain.Session
	for i, ch := range []string{"A", "B", "C", "D"} {
		log = append(log, sess("Math", ch, day(0, 8+i), time.Duration(i+1)*time.Minute))
	}
	top := TopSubjectsThisWeek(log, nil, refNow, 3)
	require.Len(t, top, 1)
	require.Len(t, top[0].Chapters, 3)
	assert.Equal(t, "D", top[0].Chapters[0].Name)
}

func TestTopSubjectsThisWeek_EmptyWeek(t *testing.T) {
	log := []domain.Session{sess("Math", "", day(-7, 9), time.Hour)}
	assert.Empty(t, TopSubjectsThisWeek(log, nil, refNow, 3))
}

func TestColorFor_CyclesPalette(t *testing.T) {
	order := []string{"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	assert.Equal(t, Palette[0], ColorFor("s0", order))
	assert.Equal(t, Palette[7], ColorFor("s7", order))
	assert.Equal(t, Palette[0], ColorFor("s8", order), "index wraps modulo palette length")
	assert.Equal(t, Palette[0], ColorFor("unknown", order))
}

func TestWeekSummary(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(0, 9), time.Hour),
		sess("Bio", "", day(0, 15), 30*time.Minute),
		sess("Bio", "", day(2, 9), 2*time.Hour),
		sess("Math", "", day(-2, 9), 8*time.Hour),
	}
	sum := WeekSummary(log, refNow)
	assert.Equal(t, int64(3*3600+30*60), sum.TotalSeconds)
	assert.Equal(t, 2, sum.ActiveDays)
	assert.Equal(t, int64(6300), sum.AvgDaySeconds)
	assert.Equal(t, "Bio", sum.TopSubject)
}

func TestWeekSummary_Empty(t *testing.T) {
	sum := WeekSummary(nil, refNow)
	assert.Zero(t, sum.TotalSeconds)
	assert.Zero(t, sum.AvgDaySeconds)
	assert.Empty(t, sum.TopSubject)
}

func TestGroupBySubject(t *testing.T) {
	log := []domain.Session{
		sess("Math", "", day(0, 9), time.Hour),
		sess("", "", day(0, 10), 10*time.Minute),
		sess("Bio", "", day(0, 11), 30*time.Minute),
		sess("Math", "", day(0, 12), 15*time.Minute),
	}
	groups := GroupBySubject(log)
	require.Len(t, groups, 3)
	assert.Equal(t, "Bio", groups[0].Label)
	assert.Equal(t, "Math", groups[1].Label)
	assert.Equal(t, int64(4500), groups[1].TotalSeconds)
	assert.Equal(t, day(0, 12), groups[1].Sessions[0].Timestamp, "newest first")
	assert.Equal(t, domain.NoSubjectLabel, groups[2].Label)
}

package sink

import (
	"context"
	"io"
	"sort"
	"strconv"
	"sync"

	"chat-room/domain/event"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// StatsSink counts events per type and tracks the current and peak member
// counts. Totals feed the shutdown summary table.
type StatsSink struct {
	mu      sync.Mutex
	totals  map[event.Type]int
	current int
	peak    int
}

func NewStatsSink() *StatsSink {
	return &StatsSink{totals: make(map[event.Type]int)}
}

func (s *StatsSink) Consume(_ context.Context, e event.ServerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals[e.Type()]++

	switch e.Type() {
	case event.UserJoinedType:
		s.current++
		if s.current > s.peak {
			s.peak = s.current
		}
	case event.UserLeftType:
		if s.current > 0 {
			s.current--
		}
	}
	return nil
}

// Totals returns a copy of the per-type counters.
func (s *StatsSink) Totals() map[event.Type]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[event.Type]int, len(s.totals))
	for t, n := range s.totals {
		totals[t] = n
	}
	return totals
}

func (s *StatsSink) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

func (s *StatsSink) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RenderTable writes the shutdown summary as a plain table.
func (s *StatsSink) RenderTable(w io.Writer) {
	totals := s.Totals()

	types := lo.Keys(totals)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Event", "Count"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, t := range types {
		table.Append([]string{string(t), strconv.Itoa(totals[t])})
	}
	table.Append([]string{"PEAK_MEMBERS", strconv.Itoa(s.Peak())})
	table.Render()
}

package sitemapper

import (
	"github.com/wanstack/sitemapper/vmanage"
)

// LinkSummary aggregates session counts for one WAN transport color on
// one device.
type LinkSummary struct {
	Color              string `json:"color"`
	ControlConnections int    `json:"control_connections_up"`
	BfdSessions        int    `json:"bfd_sessions_up"`
}

// summarizeTLOCs indexes TLOC records by system IP, summing control and
// BFD session counts per color. Colors keep their first-appearance
// order so repeated runs emit identical structures.
func summarizeTLOCs(tlocs []vmanage.TLOC) map[string][]*LinkSummary {
	summaries := make(map[string][]*LinkSummary)
	index := make(map[string]*LinkSummary)

	for _, tloc := range tlocs {
		if tloc.SystemIP == "" {
			continue
		}

		color := tloc.Color

		if color == "" {
			color = "N/A"
		}

		key := tloc.SystemIP + "|" + color

		if s, ok := index[key]; ok {
			s.ControlConnections += tloc.ControlConnectionsUp
			s.BfdSessions += tloc.BfdSessionsUp
			continue
		}

		s := &LinkSummary{
			Color:              color,
			ControlConnections: tloc.ControlConnectionsUp,
			BfdSessions:        tloc.BfdSessionsUp,
		}

		index[key] = s
		summaries[tloc.SystemIP] = append(summaries[tloc.SystemIP], s)
	}

	return summaries
}

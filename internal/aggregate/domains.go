package aggregate

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/pressence/frontend/internal/article"
)

// DomainGroup is the set of source URLs sharing a registrable domain.
type DomainGroup struct {
	Domain string
	URLs   []string
}

// Domain returns the registrable domain of rawURL ("www.sme.sk" and
// "dennik.sme.sk" both give "sme.sk"). Hosts without a public suffix fall
// back to the bare hostname; unparseable input is returned trimmed.
func Domain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

// Domains returns the distinct domains of urls in first-seen order.
func Domains(urls []string) []string {
	groups := GroupByDomain(urls)
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Domain != "" {
			out = append(out, g.Domain)
		}
	}
	return out
}

// GroupByDomain buckets urls by Domain, keeping first-seen order for both
// groups and the URLs within them.
func GroupByDomain(urls []string) []DomainGroup {
	var groups []DomainGroup
	index := make(map[string]int)
	for _, u := range urls {
		d := Domain(u)
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, DomainGroup{Domain: d})
		}
		groups[i].URLs = append(groups[i].URLs, u)
	}
	return groups
}

// DomainSummary is the orientation verdict for one domain group.
type DomainSummary struct {
	Domain      string
	URLs        []string
	Orientation article.Orientation
	// Confidence is the mean of the non-zero per-URL confidences.
	Confidence float64
	Counts     map[article.Orientation]int
}

// SummarizeDomain tallies the orientation of every URL in g. URLs the
// classifier did not return count as neutral. The plurality wins; ties go to
// the orientation encountered first.
func SummarizeDomain(g DomainGroup, orientations map[string]article.URLOrientation) DomainSummary {
	s := DomainSummary{
		Domain:      g.Domain,
		URLs:        g.URLs,
		Orientation: article.Neutral,
		Counts:      make(map[article.Orientation]int),
	}

	var seen []article.Orientation
	var sum float64
	var n int
	for _, u := range g.URLs {
		o, _ := article.Lookup(orientations, u)
		if s.Counts[o.Orientation] == 0 {
			seen = append(seen, o.Orientation)
		}
		s.Counts[o.Orientation]++
		if o.Confidence > 0 {
			sum += o.Confidence
			n++
		}
	}

	best := 0
	for _, o := range seen {
		if c := s.Counts[o]; c > best {
			best = c
			s.Orientation = o
		}
	}
	if n > 0 {
		s.Confidence = sum / float64(n)
	}
	return s
}

// Summarize groups urls by domain and summarizes each group.
func Summarize(urls []string, orientations map[string]article.URLOrientation) []DomainSummary {
	groups := GroupByDomain(urls)
	out := make([]DomainSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, SummarizeDomain(g, orientations))
	}
	return out
}

// Share is one orientation's slice of all sources.
type Share struct {
	Orientation article.Orientation
	Count       int
	Percent     float64
}

// Breakdown counts every URL's orientation across all domains. Shares are
// sorted by count, highest first; equal counts keep first-seen order.
func Breakdown(urls []string, orientations map[string]article.URLOrientation) []Share {
	if len(urls) == 0 {
		return []Share{}
	}

	var shares []Share
	index := make(map[article.Orientation]int)
	for _, u := range urls {
		o, _ := article.Lookup(orientations, u)
		i, ok := index[o.Orientation]
		if !ok {
			i = len(shares)
			index[o.Orientation] = i
			shares = append(shares, Share{Orientation: o.Orientation})
		}
		shares[i].Count++
	}

	total := float64(len(urls))
	for i := range shares {
		shares[i].Percent = float64(shares[i].Count) / total * 100
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Count > shares[j].Count })
	return shares
}


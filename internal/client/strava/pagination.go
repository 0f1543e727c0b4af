package strava

import (
	"net/url"
	"strconv"
	"time"
)

// ListParams maps to the athlete activities query parameters. Strava
// paginates by page number rather than cursor tokens.
type ListParams struct {
	Page    int
	PerPage int
	After   *time.Time
	Before  *time.Time
}

const MaxPerPage = 200

func (p *ListParams) values() url.Values {
	if p == nil {
		return nil
	}

	v := make(url.Values)

	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.After != nil {
		v.Set("after", strconv.FormatInt(p.After.Unix(), 10))
	}
	if p.Before != nil {
		v.Set("before", strconv.FormatInt(p.Before.Unix(), 10))
	}

	return v
}

package square

import "github.com/justinsenglish/crave.services/internal/domain"

// searchOrdersRequest is the body of POST /v2/orders/search.
type searchOrdersRequest struct {
	LocationIDs []string          `json:"location_ids"`
	Cursor      string            `json:"cursor,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Query       *searchOrderQuery `json:"query,omitempty"`
}

type searchOrderQuery struct {
	Filter searchOrderFilter `json:"filter"`
}

type searchOrderFilter struct {
	DateTimeFilter dateTimeFilter `json:"date_time_filter"`
	StateFilter    stateFilter    `json:"state_filter"`
}

type dateTimeFilter struct {
	CreatedAt timeRange `json:"created_at"`
}

type timeRange struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type stateFilter struct {
	States []string `json:"states"`
}

type searchOrdersResponse struct {
	Orders []domain.RawOrder      `json:"orders"`
	Cursor string                 `json:"cursor"`
	Errors []domain.PlatformError `json:"errors"`
}

type listLocationsResponse struct {
	Locations []domain.Location      `json:"locations"`
	Errors    []domain.PlatformError `json:"errors"`
}

type retrieveLocationResponse struct {
	Location *domain.Location       `json:"location"`
	Errors   []domain.PlatformError `json:"errors"`
}

// errorResponse is the body Square sends with non-2xx statuses.
type errorResponse struct {
	Errors []domain.PlatformError `json:"errors"`
}

func newSearchOrdersRequest(s domain.OrderSearch) searchOrdersRequest {
	return searchOrdersRequest{
		LocationIDs: []string{s.LocationID},
		Cursor:      s.Cursor,
		Limit:       s.Limit,
		Query: &searchOrderQuery{
			Filter: searchOrderFilter{
				DateTimeFilter: dateTimeFilter{
					CreatedAt: timeRange{
						StartAt: s.Window.StartParam(),
						EndAt:   s.Window.EndParam(),
					},
				},
				StateFilter: stateFilter{States: s.States},
			},
		},
	}
}

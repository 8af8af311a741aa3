package appstore

// Resource types used by the Game Center endpoints.
const (
	TypeApps                               = "apps"
	TypeGameCenterDetails                  = "gameCenterDetails"
	TypeGameCenterLeaderboards             = "gameCenterLeaderboards"
	TypeGameCenterLeaderboardLocalizations = "gameCenterLeaderboardLocalizations"
)

// Fixed leaderboard attributes. Lap and sector times are elapsed times where
// the lowest score wins.
const (
	FormatterElapsedTimeCentisecond = "ELAPSED_TIME_CENTISECOND"
	SubmissionBestScore             = "BEST_SCORE"
	SortAscending                   = "ASC"
)

// ResourceIdentifier is the type/id pair identifying a resource.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship links a resource to another one.
type Relationship struct {
	Data ResourceIdentifier `json:"data"`
}

// Resource is a single resource object in a request or response document.
type Resource[A any] struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    *A                      `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Document is the top-level request body envelope.
type Document[A any] struct {
	Data Resource[A] `json:"data"`
}

// LeaderboardAttributes are the attributes of a gameCenterLeaderboards resource.
type LeaderboardAttributes struct {
	DefaultFormatter string `json:"defaultFormatter"`
	ReferenceName    string `json:"referenceName"`
	VendorIdentifier string `json:"vendorIdentifier"`
	SubmissionType   string `json:"submissionType"`
	ScoreSortType    string `json:"scoreSortType"`
}

// LocalizationAttributes are the attributes of a gameCenterLeaderboardLocalizations resource.
type LocalizationAttributes struct {
	Locale string `json:"locale"`
	Name   string `json:"name"`
}

type noAttributes struct{}

// resourceResponse decodes only the identity of the returned resource.
// Data is nil when the API answers with "data": null.
type resourceResponse struct {
	Data *ResourceIdentifier `json:"data"`
}

// ErrorItem is one entry of an API error response.
type ErrorItem struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

func relationshipTo(resourceType, id string) Relationship {
	return Relationship{Data: ResourceIdentifier{Type: resourceType, ID: id}}
}

package handlers

// ShortenItem is one URL in a batch submission.
type ShortenItem struct {
	OriginalURL     string `doc:"The URL to shorten"                       example:"example.com/very/long/path" json:"originalUrl"`
	ValidityMinutes int64  `doc:"Validity period in minutes"               example:"30"                         json:"validityPeriodMinutes"`
	PreferredCode   string `doc:"Preferred shortcode, left empty to generate" example:"mylink"                  json:"preferredShortcode,omitempty"`
}

// ShortenRequest is the request body for a batch submission.
type ShortenRequest struct {
	Body struct {
		URLs []ShortenItem `doc:"URLs to shorten, up to five per batch" json:"urls"`
	}
}

// ClickPayload is one click observation on a record.
type ClickPayload struct {
	Timestamp int64  `doc:"Click instant, epoch milliseconds" json:"timestamp"`
	Source    string `doc:"Traffic source label"              json:"source"`
	Geo       string `doc:"Region label"                      json:"geo"`
}

// RecordPayload is a URL record as exposed to clients.
type RecordPayload struct {
	ID           string         `doc:"Record identifier"                           json:"id"`
	OriginalURL  string         `doc:"The original URL"                            json:"originalUrl"`
	ShortCode    string         `doc:"The short code"         example:"Ab3xY9"     json:"shortCode"`
	ShortURL     string         `doc:"The full short URL"                          json:"shortUrl"`
	CreationDate int64          `doc:"Creation instant, epoch milliseconds"        json:"creationDate"`
	ExpiryDate   int64          `doc:"Expiry instant, epoch milliseconds, 0 if none" json:"expiryDate"`
	Clicks       []ClickPayload `doc:"Click history, oldest first"                 json:"clicks"`
}

// ShortenResponse is the response for a committed batch.
type ShortenResponse struct {
	Status int
	Body   struct {
		Records []RecordPayload `doc:"The created records" json:"records"`
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Ab3xY9" path:"code"`
}

// RedirectResponse carries the redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// ListURLsResponse is the statistics snapshot of all records.
type ListURLsResponse struct {
	Body struct {
		Records []RecordPayload `doc:"All stored records" json:"records"`
	}
}

// DeleteURLRequest targets a record by id.
type DeleteURLRequest struct {
	ID string `doc:"Record identifier" path:"id"`
}

// DeleteURLResponse is the empty response for a deletion.
type DeleteURLResponse struct {
	Status int
}

package apierror

// Error type URIs following the urn:eventernote-report:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:eventernote-report:error:validation"

	// TypeInvalidRange indicates an unusable date range or preset (400)
	TypeInvalidRange = "urn:eventernote-report:error:invalid_range"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:eventernote-report:error:not_found"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:eventernote-report:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:eventernote-report:error:internal"

	// TypeUpstream indicates Eventernote could not be scraped (502)
	TypeUpstream = "urn:eventernote-report:error:upstream"

	// TypeUnavailable indicates the service is temporarily unavailable (503)
	TypeUnavailable = "urn:eventernote-report:error:unavailable"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleInvalidRange = "Invalid Date Range"
	TitleNotFound     = "Resource Not Found"
	TitleRateLimit    = "Rate Limit Exceeded"
	TitleInternal     = "Internal Server Error"
	TitleUpstream     = "Upstream Unavailable"
	TitleUnavailable  = "Service Unavailable"
)

package report

// CreateRequest is what the client submits when uploading a report. The
// timestamp is the client-side capture time; when absent the server
// assigns one.
type CreateRequest struct {
	Description   string                `json:"description"`
	Photos        []string              `json:"photos,omitempty"`
	Location      Coordinates           `json:"location"`
	Timestamp     string                `json:"timestamp,omitempty"`
	NoiseLevel    *float64              `json:"noiseLevel,omitempty"`
	LightLevel    *float64              `json:"lightLevel,omitempty"`
	Accelerometer *AccelerometerReading `json:"accelerometer,omitempty"`
}

type ListResponse struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
}

type StatsResponse struct {
	TotalReports int64  `json:"total_reports"`
	TotalPhotos  int64  `json:"total_photos"`
	FirstReport  string `json:"first_report,omitempty"`
	LastReport   string `json:"last_report,omitempty"`
}

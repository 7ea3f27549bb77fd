// Package dto defines the JSON bodies exchanged with API clients.
package dto

// TranscribeResponse is the success envelope of /transcribe and
// /transcribe_url. ProcessingTime is wall-clock seconds spent inside the
// service, rounded to two decimals.
type TranscribeResponse struct {
	Success        bool    `json:"success"`
	Transcription  string  `json:"transcription"`
	Language       string  `json:"language"`
	SampleRate     int     `json:"sample_rate"`
	Filename       string  `json:"filename,omitempty"`
	URL            string  `json:"url,omitempty"`
	Warning        string  `json:"warning,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
}

// TranscribeURLRequest asks for transcription of a remote audio resource.
type TranscribeURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// HealthResponse reports liveness and LAN reachability.
type HealthResponse struct {
	Status       string `json:"status"`
	LocalIP      string `json:"local_ip"`
	GPUAvailable bool   `json:"gpu_available"`
	ModelLoaded  bool   `json:"model_loaded"`
}

// NetworkInfoResponse gives mobile clients the address to reach the
// upload page from the same network.
type NetworkInfoResponse struct {
	LocalIP string `json:"local_ip"`
	Port    string `json:"port"`
}

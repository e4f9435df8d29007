package models

// InferenceRequest is the body sent to every Hugging Face model endpoint.
// The model identifier travels in the URL, not the body.
type InferenceRequest struct {
	Inputs string `json:"inputs"`
}

type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreList keeps the ordering returned by the remote model.
type ScoreList []LabelScore

// Top returns the highest scoring entry. Equal scores keep the first one seen.
func (s ScoreList) Top() (LabelScore, bool) {
	if len(s) == 0 {
		return LabelScore{}, false
	}
	top := s[0]
	for _, ls := range s[1:] {
		if ls.Score > top.Score {
			top = ls
		}
	}
	return top, true
}

type SummaryText string

type SummaryResponse struct {
	SummaryText *string `json:"summary_text"`
}

package model

import "encoding/json"

type PredictionRequest struct {
	ProvinceName    string `json:"province_name" binding:"required"`
	UrbRur          int    `json:"urb_rur" binding:"oneof=1 2"` // 1=Urban, 2=Rural
	NoOfIndiv       int    `json:"no_of_indiv" binding:"min=1,max=20"`
	NoSleepingRooms int    `json:"no_sleeping_rooms" binding:"min=0,max=10"`
	HouseType       int    `json:"house_type" binding:"min=1,max=6"` // 1=Strong ... 6=Weak
	HasElectricity  int    `json:"has_electricity" binding:"oneof=0 1"`
	Television      int    `json:"television" binding:"oneof=0 1 2"` // 2=Non-functional
	Ref             int    `json:"ref" binding:"oneof=0 1 2"`
	Motorcycle      int    `json:"motorcycle" binding:"oneof=0 1 2"`
}

type PredictionResponse struct {
	PredictionID       string  `json:"prediction_id"`
	PredictedStatus    int     `json:"predicted_status"`
	PredictedLabel     string  `json:"predicted_label"`
	Probability        float64 `json:"probability"`
	ProbabilityPoor    float64 `json:"probability_poor"`
	ProbabilityNonPoor float64 `json:"probability_nonpoor"`
	ModelVersion       string  `json:"model_version"`
	Recommendation     string  `json:"recommendation"`
}

type QuestionnaireField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
	// Options is either a list of strings or a list of {value, label}.
	Options json.RawMessage `json:"options,omitempty"`
	Min     *int            `json:"min,omitempty"`
	Max     *int            `json:"max,omitempty"`
}

type Questionnaire struct {
	Version     string               `json:"version"`
	TotalFields int                  `json:"total_fields"`
	Fields      []QuestionnaireField `json:"fields"`
}

package api

import (
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-flow/internal/backend"
	"github.com/spigell/resume-flow/internal/resume"
)

type Operation string

const (
	OpUpload  Operation = "upload"
	OpAnalyze Operation = "analyze"
	OpMatch   Operation = "match"
)

// TransportError is returned when a live call fails in transit or the
// service answers with a body that is not JSON.
type TransportError = backend.Error

// UploadResult is the upload response. Info is nil when the body carries no
// resume_info object.
type UploadResult struct {
	Filename string
	Info     *resume.Info
	Raw      any
	Problems []string
}

type Analysis struct {
	Score    float64
	Keywords []string
	Raw      any
	Problems []string
}

type MatchOutcome struct {
	Percent  float64
	Missing  []string
	Raw      any
	Problems []string
}

func decodeUpload(body any) *UploadResult {
	result := &UploadResult{Raw: body, Problems: checkShape(OpUpload, body)}

	obj, ok := body.(map[string]any)
	if !ok {
		return result
	}
	if name, ok := obj["filename"].(string); ok {
		result.Filename = name
	}
	result.Info = resume.FromValue(obj["resume_info"])
	return result
}

func decodeAnalysis(body any) *Analysis {
	result := &Analysis{Raw: body, Problems: checkShape(OpAnalyze, body)}

	var typed struct {
		Score    float64  `mapstructure:"score"`
		Keywords []string `mapstructure:"keywords"`
	}
	if err := weakDecode(body, &typed); err != nil {
		result.Problems = append(result.Problems, err.Error())
	}
	result.Score = typed.Score
	result.Keywords = typed.Keywords
	return result
}

func decodeMatch(body any) *MatchOutcome {
	result := &MatchOutcome{Raw: body, Problems: checkShape(OpMatch, body)}

	var typed struct {
		MatchResult struct {
			Percent float64  `mapstructure:"percent"`
			Missing []string `mapstructure:"missing"`
		} `mapstructure:"match_result"`
	}
	if err := weakDecode(body, &typed); err != nil {
		result.Problems = append(result.Problems, err.Error())
	}
	result.Percent = typed.MatchResult.Percent
	result.Missing = typed.MatchResult.Missing
	return result
}

func weakDecode(input, target any) error {
	if input == nil {
		return nil
	}

	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

package inference

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"mneme/internal/models"
)

// errorMessage extracts the "error" field of an error envelope, if any.
// Some endpoints return a list of messages under "error".
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return ""
	}
	e := root.Get("error")
	switch {
	case !e.Exists():
		return ""
	case e.IsArray():
		if items := e.Array(); len(items) > 0 {
			return items[0].String()
		}
		return "unknown error"
	default:
		return e.String()
	}
}

func unexpected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedResponse, fmt.Sprintf(format, args...))
}

func parseRoot(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, unexpected("body is not valid JSON")
	}
	return gjson.ParseBytes(body), nil
}

// parseLabelScores accepts [{label,score}] or the nested [[{label,score}]]
// form the raw API returns for a single input.
func parseLabelScores(body []byte) ([]models.LabelScore, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, unexpected("expected an array of label scores")
	}

	items := root.Array()
	if len(items) > 0 && items[0].IsArray() {
		items = items[0].Array()
	}

	return labelScoresFrom(items)
}

func labelScoresFrom(items []gjson.Result) ([]models.LabelScore, error) {
	out := make([]models.LabelScore, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, unexpected("item %d is not an object", i)
		}
		label := item.Get("label")
		if label.Type != gjson.String {
			return nil, unexpected("item %d has no string label", i)
		}
		score, err := scoreOf(item.Get("score"))
		if err != nil {
			return nil, unexpected("item %d: %v", i, err)
		}
		out = append(out, models.LabelScore{Label: label.String(), Score: score})
	}
	return out, nil
}

func scoreOf(v gjson.Result) (float64, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("score is not a number")
	}
	s := v.Float()
	if math.IsNaN(s) || s < 0 || s > 1 {
		return 0, fmt.Errorf("score %v out of range", s)
	}
	return s, nil
}

// parseSummary accepts [{summary_text}] or a bare {summary_text}.
func parseSummary(body []byte) (string, error) {
	root, err := parseRoot(body)
	if err != nil {
		return "", err
	}

	if root.IsArray() {
		items := root.Array()
		if len(items) == 0 {
			return "", unexpected("empty summarization result")
		}
		root = items[0]
	}
	if !root.IsObject() {
		return "", unexpected("expected a summarization object")
	}

	text := root.Get("summary_text")
	if text.Type != gjson.String {
		return "", unexpected("summary_text missing or not a string")
	}
	return text.String(), nil
}

// parseZeroShot accepts the raw API form {labels:[...],scores:[...]} and the
// pre-zipped [{label,score}] form.
func parseZeroShot(body []byte) ([]models.LabelScore, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}

	switch {
	case root.IsArray():
		return labelScoresFrom(root.Array())
	case root.IsObject():
		labels := root.Get("labels")
		scores := root.Get("scores")
		if !labels.IsArray() || !scores.IsArray() {
			return nil, unexpected("expected labels and scores arrays")
		}
		ls, ss := labels.Array(), scores.Array()
		if len(ls) != len(ss) {
			return nil, unexpected("%d labels but %d scores", len(ls), len(ss))
		}
		out := make([]models.LabelScore, 0, len(ls))
		for i := range ls {
			if ls[i].Type != gjson.String {
				return nil, unexpected("label %d is not a string", i)
			}
			score, err := scoreOf(ss[i])
			if err != nil {
				return nil, unexpected("label %q: %v", ls[i].String(), err)
			}
			out = append(out, models.LabelScore{Label: ls[i].String(), Score: score})
		}
		return out, nil
	default:
		return nil, unexpected("expected an array or object")
	}
}

package reporter

import (
	"encoding/json"
	"html/template"
	"strconv"
	"strings"

	"github.com/aleister1102/livewatch/internal/models"
)

// GetCommonTemplateFunctions returns common functions for templates
func GetCommonTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return template.JS(data), nil
		},
		"upper":       strings.ToUpper,
		"statusClass": statusClass,
		"startTime":   formatStartTime,
		"headStatus":  headStatus,
		"headServer":  headServer,
		"observables": observables,
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
	}
}

func statusClass(status models.EventStatus) string {
	switch status {
	case models.StatusLive, models.StatusUpcoming:
		return string(status)
	default:
		return ""
	}
}

func formatStartTime(epoch *int64) string {
	if epoch == nil || *epoch == 0 {
		return ""
	}
	return strconv.FormatInt(*epoch, 10)
}

func headStatus(head *models.HeadSnapshot) string {
	if head == nil || head.Status == nil {
		return ""
	}
	return strconv.Itoa(*head.Status)
}

func headServer(head *models.HeadSnapshot) string {
	if head == nil {
		return ""
	}
	return head.ServerIP
}

func observables(obs *models.RequestObservables) models.RequestObservables {
	if obs == nil {
		return models.RequestObservables{}
	}
	return *obs
}

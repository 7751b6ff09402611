// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests through WithLogging.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "antimoltbook_http_requests_total",
		Help: "HTTP requests received, by method",
	}, []string{"method"})

	// CaptchaOutcomes counts validator verdicts per challenge kind.
	CaptchaOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "antimoltbook_captcha_outcomes_total",
		Help: "Captcha validation outcomes, by challenge kind and outcome",
	}, []string{"kind", "outcome"})

	// CrowdResolutions counts quorum decisions on escalated challenges.
	CrowdResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "antimoltbook_captcha_crowd_resolutions_total",
		Help: "Crowd review resolutions, by final status",
	}, []string{"status"})
)

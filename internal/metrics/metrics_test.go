package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if scrapesTotal == nil || scrapeItemsTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil ||
		activityEventsTotal == nil || feedbackTotal == nil || recommendationsTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveScrape(t *testing.T) {
	Init()

	before := testutil.ToFloat64(scrapesTotal.WithLabelValues("live"))
	itemsBefore := testutil.ToFloat64(scrapeItemsTotal.WithLabelValues("live"))

	ObserveScrape("live", 7)

	if got := testutil.ToFloat64(scrapesTotal.WithLabelValues("live")); got != before+1 {
		t.Errorf("Expected scrapesTotal to be %f, got %f", before+1, got)
	}
	if got := testutil.ToFloat64(scrapeItemsTotal.WithLabelValues("live")); got != itemsBefore+7 {
		t.Errorf("Expected scrapeItemsTotal to be %f, got %f", itemsBefore+7, got)
	}
}

func TestObserveScrapeZeroItems(t *testing.T) {
	Init()

	itemsBefore := testutil.ToFloat64(scrapeItemsTotal.WithLabelValues("fallback"))
	ObserveScrape("fallback", 0)
	if got := testutil.ToFloat64(scrapeItemsTotal.WithLabelValues("fallback")); got != itemsBefore {
		t.Errorf("Expected scrapeItemsTotal unchanged at %f, got %f", itemsBefore, got)
	}
}

func TestObserveFeedbackAndRecommendations(t *testing.T) {
	Init()

	likesBefore := testutil.ToFloat64(feedbackTotal.WithLabelValues("like"))
	recsBefore := testutil.ToFloat64(recommendationsTotal)

	ObserveFeedback("like")
	AddRecommendations(3)

	if got := testutil.ToFloat64(feedbackTotal.WithLabelValues("like")); got != likesBefore+1 {
		t.Errorf("Expected feedbackTotal to be %f, got %f", likesBefore+1, got)
	}
	if got := testutil.ToFloat64(recommendationsTotal); got != recsBefore+3 {
		t.Errorf("Expected recommendationsTotal to be %f, got %f", recsBefore+3, got)
	}
}

func TestObserveActivityEvent(t *testing.T) {
	Init()

	before := testutil.ToFloat64(activityEventsTotal.WithLabelValues("query_processed"))
	ObserveActivityEvent("query_processed")
	if got := testutil.ToFloat64(activityEventsTotal.WithLabelValues("query_processed")); got != before+1 {
		t.Errorf("Expected activityEventsTotal to be %f, got %f", before+1, got)
	}
}

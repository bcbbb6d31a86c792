package model

import "time"

type FailureKind string

const (
	TransportTimeout  FailureKind = "transport_timeout"
	ConnectionFailure FailureKind = "connection_failure"
	GenericFailure    FailureKind = "generic_failure"
)

type Step string

const (
	StepLoadFeed   Step = "load_feed"
	StepList       Step = "list"
	StepReconcile  Step = "reconcile"
	StepPushStocks Step = "push_stocks"
	StepPushPrices Step = "push_prices"
)

type StepResult struct {
	Step    Step
	Items   int
	Batches int
	Err     error
	Kind    FailureKind
}

func (r StepResult) Failed() bool {
	return r.Err != nil
}

type ChannelReport struct {
	Channel       string
	Steps         []StepResult
	OfferIDs      int
	Unmatched     int
	StocksNonZero int
	Rejected      int
	Stocks        []StockUpdate
	Prices        []PriceUpdate
}

func (c ChannelReport) Failed() bool {
	for _, step := range c.Steps {
		if step.Failed() {
			return true
		}
	}
	return false
}

type RunReport struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	FeedRecords int
	Feed        StepResult
	Channels    []ChannelReport
}

func (r RunReport) Failed() bool {
	if r.Feed.Failed() {
		return true
	}
	for _, ch := range r.Channels {
		if ch.Failed() {
			return true
		}
	}
	return false
}

type ReportFile struct {
	Name    string
	Content []byte
}

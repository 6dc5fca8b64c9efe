/*
alerts.go - Background alert scanner

PURPOSE:
  Periodically evaluates every open contract and collects the conditions a
  lot manager needs to act on: overdue lien notices, past-due balances,
  sale-eligible vehicles, and collectibility risk.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each sweep replaces the previous alert set wholesale
  - The engine stays pure; all clock reads happen here

CONFIGURATION:
  - CheckInterval: How often to scan (default: 1 hour)
  - Enabled: Whether the scanner is active (default: true)

USAGE:
  scanner := NewAlertScanner(store, cfg)
  scanner.Start()
  // ... later
  scanner.Stop()

SEE ALSO:
  - handlers.go: ListAlerts endpoint
  - engine/balance.go: Evaluate
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/suncoast/lot-engine/engine"
)

// Alert severities, most urgent first.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Alert is one actionable condition found by a sweep.
type Alert struct {
	ContractID int       `json:"contract_id"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// AlertScanner sweeps the contract store on a timer.
type AlertScanner struct {
	Store         engine.ContractStore
	Config        engine.Config
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// alertsMu is separate so a sweep can publish while Stop waits on wg.
	alertsMu sync.Mutex
	alerts   []Alert
}

// NewAlertScanner creates a new scanner.
func NewAlertScanner(store engine.ContractStore, cfg engine.Config) *AlertScanner {
	return &AlertScanner{
		Store:         store,
		Config:        cfg,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scanner.
func (as *AlertScanner) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		log.Println("[Alerts] Disabled, not starting")
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.wg.Add(1)

	go as.run()

	log.Printf("[Alerts] Started with check interval: %v", as.CheckInterval)
}

// Stop stops the scanner.
func (as *AlertScanner) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		log.Println("[Alerts] Stopped")
	}
}

// Alerts returns a snapshot of the latest sweep.
func (as *AlertScanner) Alerts() []Alert {
	as.alertsMu.Lock()
	defer as.alertsMu.Unlock()

	out := make([]Alert, len(as.alerts))
	copy(out, as.alerts)
	return out
}

func (as *AlertScanner) run() {
	defer as.wg.Done()

	// Sweep immediately on start
	as.Sweep()

	for {
		select {
		case <-as.ticker.C:
			as.Sweep()
		case <-as.stop:
			return
		}
	}
}

// Sweep evaluates every open contract as of today and replaces the alert
// set. Exposed for tests and for a manual refresh.
func (as *AlertScanner) Sweep() {
	ctx := context.Background()
	today := engine.Today()
	now := time.Now()

	contracts, err := as.Store.List(ctx)
	if err != nil {
		log.Printf("[Alerts] Sweep failed: %v", err)
		return
	}

	var found []Alert
	for _, c := range contracts {
		if c.Status == "closed" {
			continue
		}
		found = append(found, contractAlerts(c, today, as.Config, now)...)
	}

	as.alertsMu.Lock()
	as.alerts = found
	as.alertsMu.Unlock()

	log.Printf("[Alerts] Sweep complete: %d contracts, %d alerts", len(contracts), len(found))
}

// contractAlerts derives the alert set for one contract.
func contractAlerts(c engine.Contract, today engine.Date, cfg engine.Config, now time.Time) []Alert {
	ev := engine.Evaluate(c, today, cfg)

	var alerts []Alert
	add := func(severity, message string) {
		alerts = append(alerts, Alert{ContractID: c.ID, Severity: severity, Message: message, At: now})
	}

	if ev.EffectiveType == engine.TypeRecovery && c.NoticeSentDate.IsZero() &&
		today.After(ev.Timeline.NoticeDeadline) {
		add(SeverityCritical, fmt.Sprintf(
			"Lien notice overdue: was due by %s (FL 713.78)", ev.Timeline.NoticeDeadline))
	}

	if ev.PastDue {
		add(SeverityWarning, fmt.Sprintf(
			"Past due %d days, balance %s", ev.DaysPastDue, ev.Balance))
	}

	if ev.Breakdown != nil && ev.Breakdown.Warning != "" {
		add(SeverityWarning, ev.Breakdown.Warning)
	}

	if ev.Timeline.SaleEligible {
		add(SeverityInfo, fmt.Sprintf(
			"Eligible for lien sale since %s", ev.Timeline.SaleEligibleDate))
	}

	return alerts
}

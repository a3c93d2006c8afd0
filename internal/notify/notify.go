package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/safety"
)

// Alerter delivers one alert. *cloud.SNSClient satisfies it.
type Alerter interface {
	SendAlert(ctx context.Context, subject, message string) error
}

// LogAlerter writes alerts to the log when no cloud topic is configured.
type LogAlerter struct{}

func (LogAlerter) SendAlert(_ context.Context, subject, message string) error {
	log.Warn().Str("subject", subject).Str("message", message).Msg("alert")
	return nil
}

// Notifier raises an alert when the water turns unsafe, the appliance goes
// offline or a consumable runs low. Each condition alerts once until it clears.
type Notifier struct {
	alerter       Alerter
	lowSupplyDays int

	mu      sync.Mutex
	unsafe  bool
	offline bool
	foodLow bool
	phLow   bool
}

func New(alerter Alerter, lowSupplyDays int) *Notifier {
	if alerter == nil {
		alerter = LogAlerter{}
	}
	return &Notifier{alerter: alerter, lowSupplyDays: lowSupplyDays}
}

// Publish implements monitor.Sink.
func (n *Notifier) Publish(ctx context.Context, snap monitor.Snapshot) {
	for _, a := range n.evaluate(snap) {
		if err := n.alerter.SendAlert(ctx, a.subject, a.message); err != nil {
			log.Error().Err(err).Str("subject", a.subject).Msg("alert delivery failed")
		}
	}
}

type alert struct {
	subject string
	message string
}

func (n *Notifier) evaluate(snap monitor.Snapshot) []alert {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []alert

	offline := snap.Safety.Message == safety.MessageOffline
	if offline && !n.offline {
		out = append(out, offlineAlert(snap.ComputedAt))
	}
	n.offline = offline

	unsafe := !snap.Safety.Safe && !snap.Safety.Awaiting() && !offline
	if unsafe && !n.unsafe {
		out = append(out, waterAlert(snap))
	}
	n.unsafe = unsafe

	foodLow := n.low(snap.Estimates.Food)
	if foodLow && !n.foodLow {
		out = append(out, supplyAlert("Food", *snap.Estimates.Food, snap.ComputedAt))
	}
	n.foodLow = foodLow

	phLow := n.low(snap.Estimates.PhSolution)
	if phLow && !n.phLow {
		out = append(out, supplyAlert("pH solution", *snap.Estimates.PhSolution, snap.ComputedAt))
	}
	n.phLow = phLow

	return out
}

func (n *Notifier) low(days *int) bool {
	return days != nil && *days <= n.lowSupplyDays
}

func offlineAlert(at time.Time) alert {
	return alert{
		subject: "Aquarium Alert: System Offline",
		message: fmt.Sprintf("No sensor data received recently.\n\nTime: %s", at.Format(time.RFC3339)),
	}
}

func waterAlert(snap monitor.Snapshot) alert {
	var b strings.Builder
	b.WriteString(snap.Safety.Message)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Temperature: %s °C\n", value(snap.Reading.Temperature))
	fmt.Fprintf(&b, "Turbidity: %s NTU\n", value(snap.Reading.Turbidity))
	fmt.Fprintf(&b, "pH: %s\n", value(snap.Reading.PH))
	fmt.Fprintf(&b, "Time: %s", snap.ComputedAt.Format(time.RFC3339))
	return alert{subject: "Aquarium Alert: Water Unsafe", message: b.String()}
}

func supplyAlert(name string, days int, at time.Time) alert {
	return alert{
		subject: fmt.Sprintf("Aquarium Alert: %s Running Low", name),
		message: fmt.Sprintf("%s container is estimated to run out in %d day(s).\n\nTime: %s",
			name, days, at.Format(time.RFC3339)),
	}
}

func value(v *float64) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.1f", *v)
}

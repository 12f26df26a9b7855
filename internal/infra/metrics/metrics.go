package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OnboardingTransitions counts state machine transitions by resulting state.
	OnboardingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "referralbot",
		Name:      "onboarding_transitions_total",
		Help:      "Onboarding state machine transitions by resulting state.",
	}, []string{"to"})

	// SubscriptionChecks counts channel membership lookups by verdict.
	SubscriptionChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "referralbot",
		Name:      "subscription_checks_total",
		Help:      "Channel membership checks by verdict (subscribed, not_subscribed, check_failed).",
	}, []string{"verdict"})

	// ReferralsAttributed counts referral rows actually created (deduplicated
	// attempts are not counted).
	ReferralsAttributed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "referralbot",
		Name:      "referrals_attributed_total",
		Help:      "Referral records created after subscription confirmation.",
	})

	// BroadcastSends counts per-recipient broadcast dispatches by result.
	BroadcastSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "referralbot",
		Name:      "broadcast_sends_total",
		Help:      "Broadcast dispatch attempts by result (success, failure).",
	}, []string{"result"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PokesDispatched 成功派发的戳一戳计数，按通道维度（group / friend）
	PokesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acpoke",
			Name:      "pokes_dispatched_total",
			Help:      "Pokes successfully dispatched to the transport.",
		},
		[]string{"scope"},
	)

	// PokesSuppressed 被冷却窗口拦下的重复目标计数
	PokesSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "acpoke",
			Name:      "pokes_suppressed_total",
			Help:      "Pokes rejected by the duplicate-target cooldown gate.",
		},
	)

	// PokesUnresolved 目标解析失败计数
	PokesUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "acpoke",
			Name:      "pokes_unresolved_total",
			Help:      "Invocations where no target user id could be resolved.",
		},
	)

	// PokesFailed 派发失败计数，按通道维度
	PokesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acpoke",
			Name:      "pokes_failed_total",
			Help:      "Pokes whose transport dispatch returned an error.",
		},
		[]string{"scope"},
	)
)

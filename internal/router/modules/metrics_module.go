package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsModule exposes the Prometheus registry at /metrics.
type MetricsModule struct {
	Registry *prometheus.Registry
}

func NewMetricsModule(reg *prometheus.Registry) *MetricsModule {
	return &MetricsModule{Registry: reg}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	_ = m.Registry.Register(collectors.NewGoCollector())
	_ = m.Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}

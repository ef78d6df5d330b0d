package cron

import (
	"testing"

	cronv3 "github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"k8s.io/client-go/kubernetes"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
)

type mockKubernetesInterface struct {
	kubernetes.Interface
	mock.Mock
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func TestNewCronManager(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		Logger: &logger.Config{
			LogLevel: "info",
		},
	}
	log := getLogger()
	k8s := &mockKubernetesInterface{}

	// Act
	cm := NewCronManager(cfg, log, k8s, nil)

	// Assert
	assert.NotNil(t, cm)
	assert.Equal(t, cfg, cm.cfg)
	assert.Equal(t, log, cm.log)
	assert.Equal(t, k8s, cm.k8s)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_StartCron(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		Logger: &logger.Config{
			LogLevel: "info",
		},
	}
	log := getLogger()
	k8s := &mockKubernetesInterface{}
	cm := NewCronManager(cfg, log, k8s, nil)

	mockCron := cronv3.New(cronv3.WithSeconds())

	// Act - register jobs manually
	heartbeatId, err := mockCron.AddFunc("0 * * * * *", func() {})
	assert.NoError(t, err)
	cm.jobIDs["heartbeat"] = heartbeatId

	pipelineId, err := mockCron.AddFunc("0 */30 * * * *", func() {})
	assert.NoError(t, err)
	cm.jobIDs["pipeline_run"] = pipelineId

	cm.cron = mockCron

	// Assert
	assert.NotNil(t, cm.cron)
	assert.Equal(t, 2, len(cm.jobIDs))
}

func TestCronManager_Stop(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		Logger: &logger.Config{
			LogLevel: "info",
		},
	}
	log := getLogger()
	k8s := &mockKubernetesInterface{}
	cm := NewCronManager(cfg, log, k8s, nil)

	mockCron := cronv3.New()
	mockCron.Start()
	cm.cron = mockCron

	// Act
	cm.Stop()

	// Assert
	select {
	case <-cm.stopCh:
		// Channel is closed as expected
	default:
		t.Error("Stop channel was not closed")
	}
}

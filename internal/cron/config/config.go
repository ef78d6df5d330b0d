package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Invoice pipeline run, every 30 minutes
	CronSchedulePipelineRun string `env:"CRON_SCHEDULE_PIPELINE_RUN" envDefault:"0 */30 * * * *"`
}

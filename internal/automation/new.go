package automation

import (
	autorepo "taskweave/internal/automation/repository"
	intrepo "taskweave/internal/integration/repository"
	taskrepo "taskweave/internal/task/repository"
	"taskweave/internal/webhook"
	"taskweave/pkg/log"
)

type implEngine struct {
	autoRepo autorepo.Repository
	taskRepo taskrepo.Repository
	intRepo  intrepo.Repository
	webhooks webhook.Service
	l        log.Logger
}

// New creates the rule Engine.
func New(
	autoRepo autorepo.Repository,
	taskRepo taskrepo.Repository,
	intRepo intrepo.Repository,
	webhooks webhook.Service,
	l log.Logger,
) Engine {
	return &implEngine{
		autoRepo: autoRepo,
		taskRepo: taskRepo,
		intRepo:  intRepo,
		webhooks: webhooks,
		l:        l,
	}
}

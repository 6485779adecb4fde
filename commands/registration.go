package commands

import (
	"errors"

	command "github.com/goliatone/go-command"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// CommandRegistry collects handlers for CLI exposure.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes handlers to a message bus.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription is returned by CommandDispatcher.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar schedules the handlers that implement command.CronCommand.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions selects the integrations handlers are bound to. Nil
// integrations are skipped.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// SyncCron overrides the schedule of the course sync handler.
	SyncCron string
	// SyncDirectory is the source directory re-imported by scheduled syncs.
	SyncDirectory string
}

// RegistrationResult lists the handlers built for a container.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription in r.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands builds the course handlers against the services
// of container and binds each one to the integrations in opts. Binding keeps
// going after a failure; all errors are joined.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{}
	if container == nil {
		return result, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}
	features := container.Config.Features
	set, err := coursescmd.RegisterCourseCommands(nil, coursescmd.Dependencies{
		Documents: container.DocumentLoader(),
		Importer:  container.Importer(),
		Courses:   container.CourseService(),
		Generator: container.GeneratorService(),
	}, provider, coursescmd.FeatureGates{
		GeneratorEnabled: func() bool { return features.Generator },
	}, coursescmd.WithSyncSchedule(opts.SyncCron, opts.SyncDirectory))
	if err != nil {
		return result, err
	}

	var errs []error
	for _, handler := range set.Handlers() {
		if handler == nil {
			continue
		}
		result.Handlers = append(result.Handlers, handler)
		errs = append(errs, bind(handler, opts, result))
	}
	return result, errors.Join(errs...)
}

func bind(handler any, opts RegistrationOptions, result *RegistrationResult) error {
	var errs []error
	if opts.Registry != nil {
		errs = append(errs, opts.Registry.RegisterCommand(handler))
	}
	if opts.Dispatcher != nil {
		sub, err := opts.Dispatcher.RegisterCommand(handler)
		if sub != nil && err == nil {
			result.Subscriptions = append(result.Subscriptions, sub)
		}
		errs = append(errs, err)
	}
	if cron, ok := handler.(command.CronCommand); ok && opts.CronRegistrar != nil {
		errs = append(errs, opts.CronRegistrar(cron.CronOptions(), cron.CronHandler()))
	}
	return errors.Join(errs...)
}

package commands

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
)

// GoCommandDispatcher subscribes course handlers to the go-command global
// dispatcher so hosts can publish messages with dispatcher.Dispatch.
type GoCommandDispatcher struct {
	opts []runner.Option
}

var _ CommandDispatcher = (*GoCommandDispatcher)(nil)

// NewGoCommandDispatcher returns a dispatcher applying opts (retries,
// timeouts) to every subscription.
func NewGoCommandDispatcher(opts ...runner.Option) *GoCommandDispatcher {
	return &GoCommandDispatcher{opts: opts}
}

// RegisterCommand subscribes handler by its message type.
func (d *GoCommandDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *coursescmd.ImportCoursesHandler:
		return dispatcher.SubscribeCommand[coursescmd.ImportCoursesCommand](h, d.opts...), nil
	case *coursescmd.ReplaceLessonsHandler:
		return dispatcher.SubscribeCommand[coursescmd.ReplaceLessonsCommand](h, d.opts...), nil
	case *coursescmd.GenerateCourseHandler:
		return dispatcher.SubscribeCommand[coursescmd.GenerateCourseCommand](h, d.opts...), nil
	case *coursescmd.DeleteCourseHandler:
		return dispatcher.SubscribeCommand[coursescmd.DeleteCourseCommand](h, d.opts...), nil
	case *coursescmd.SyncCoursesHandler:
		return dispatcher.SubscribeCommand[coursescmd.SyncCoursesCommand](h, d.opts...), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}

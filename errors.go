package vkplayer

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	ErrMissingLayers         = errors.New("vulkan: required layers not available")
	ErrMissingExtensions     = errors.New("vulkan: required extensions not available")
	ErrNoPhysicalDevice      = errors.New("vulkan: no physical device")
	ErrNoSuitableQueueFamily = errors.New("vulkan: no queue family supports both graphics and present")
	ErrNoSuitableMemoryType  = errors.New("vulkan: no suitable memory type")
	ErrViewportCapacity      = errors.New("vkplayer: viewport capacity exceeded")
	ErrUnexpectedResult      = errors.New("vulkan: unexpected result")
	ErrFenceDiscipline       = errors.New("vkplayer: fence waited without a reset and submit")
	ErrNotSetup              = errors.New("vkplayer: pipeline not set up")
)

// ResultError is a non-success vk.Result returned by the named call.
type ResultError struct {
	Op     string
	Result vk.Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("vulkan: %s: %s (%d)", e.Op, vk.Error(e.Result).Error(), e.Result)
}

// NewError returns nil for vk.Success and a stack-annotated *ResultError otherwise.
func NewError(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return errors.WithStack(&ResultError{Op: op, Result: ret})
}

// MissingError lists the names a host could not provide.
type MissingError struct {
	Kind  error
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Names, ", "))
}

func (e *MissingError) Unwrap() error { return e.Kind }

func missing(kind error, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return errors.WithStack(&MissingError{Kind: kind, Names: names})
}

// Fatal runs the finalizers, logs err and exits the process.
func Fatal(log *slog.Logger, err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	if log == nil {
		log = slog.Default()
	}
	log.Error("vulkan: fatal", "err", fmt.Sprintf("%+v", err))
	os.Exit(1)
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = errors.Errorf("%+v", v)
	}
}

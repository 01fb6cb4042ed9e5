package vkplayer

import (
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Enumerate portability drivers (VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR).
const instanceCreateEnumeratePortability = vk.InstanceCreateFlags(0x00000001)

// debugLog receives validation reports; the callback has no user data path
// back into the pipeline.
var debugLog = slog.Default()

//Creates the instance with every requested layer and extension. Availability
//is checked first so a missing name fails before anything exists.
func createInstance(info *SetupInfo, r *releaser) (vk.Instance, error) {
	if err := checkLayers(info.Layers); err != nil {
		return nil, err
	}
	if err := checkInstanceExtensions(info.InstanceExtensions); err != nil {
		return nil, err
	}
	info.Logger.Info("vulkan: enabling instance", "extensions", info.InstanceExtensions, "layers", info.Layers)

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 3, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(info.AppName),
			PEngineName:        safeString(info.AppName),
		},
		Flags:                   instanceCreateEnumeratePortability,
		EnabledExtensionCount:   uint32(len(info.InstanceExtensions)),
		PpEnabledExtensionNames: safeStrings(info.InstanceExtensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}, nil, &instance)
	if err := NewError("vkCreateInstance", ret); err != nil {
		return nil, err
	}
	r.push("instance", func() { vk.DestroyInstance(instance, nil) })

	if err := vk.InitInstance(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func createDebugCallback(instance vk.Instance, log *slog.Logger, r *releaser) error {
	debugLog = log
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
	}, nil, &cb)
	if err := NewError("vkCreateDebugReportCallbackEXT", ret); err != nil {
		return err
	}
	r.push("debug callback", func() { vk.DestroyDebugReportCallback(instance, cb, nil) })
	return nil
}

// dbgCallbackFunc never asks the driver to abort the call.
func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		debugLog.Error("Validation Layer: "+pMessage, "layer", pLayerPrefix, "code", messageCode)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		debugLog.Warn("Validation Layer: "+pMessage, "layer", pLayerPrefix, "code", messageCode)
	default:
		debugLog.Debug("Validation Layer: "+pMessage, "layer", pLayerPrefix, "code", messageCode)
	}
	return vk.Bool32(vk.False)
}

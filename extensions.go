package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() (names []string, err error) {
	var count uint32
	if err = NewError("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err = NewError("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, list)); err != nil {
		return nil, err
	}
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// DeviceExtensions gets a list of device extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) (names []string, err error) {
	var count uint32
	if err = NewError("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err = NewError("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list)); err != nil {
		return nil, err
	}
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() (names []string, err error) {
	var count uint32
	if err = NewError("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	if err = NewError("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, list)); err != nil {
		return nil, err
	}
	for _, layer := range list[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// MissingNames returns the requested names absent from available, in request
// order. Matching is exact and case sensitive.
func MissingNames(requested, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}
	var missing []string
	for _, name := range requested {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Loader queries behind the availability checks; tests replace them.
var (
	enumerateLayers             = ValidationLayers
	enumerateInstanceExtensions = InstanceExtensions
	enumerateDeviceExtensions   = DeviceExtensions
)

// checkLayers fails with ErrMissingLayers when any requested layer is unavailable.
func checkLayers(requested []string) error {
	if len(requested) == 0 {
		return nil
	}
	available, err := enumerateLayers()
	if err != nil {
		return err
	}
	return missing(ErrMissingLayers, MissingNames(requested, available))
}

func checkInstanceExtensions(requested []string) error {
	available, err := enumerateInstanceExtensions()
	if err != nil {
		return err
	}
	return missing(ErrMissingExtensions, MissingNames(requested, available))
}

func checkDeviceExtensions(gpu vk.PhysicalDevice, requested []string) error {
	available, err := enumerateDeviceExtensions(gpu)
	if err != nil {
		return err
	}
	return missing(ErrMissingExtensions, MissingNames(requested, available))
}

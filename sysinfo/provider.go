// Package sysinfo exposes host facts behind one uniform Provider surface.
// Each provider owns one concern and degrades to an "Unknown" value instead
// of failing, so callers can render the whole collection blindly.
package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// Provider yields one host fact as a key and a display value.
type Provider interface {
	Key() string
	Value() string
}

// All returns every provider in display order.
func All() []Provider {
	return []Provider{
		OSProvider{},
		HostnameProvider{},
		CPUProvider{},
		MemoryProvider{},
		RuntimeProvider{},
	}
}

type OSProvider struct{}

func (OSProvider) Key() string { return "Operating system" }

func (OSProvider) Value() string {
	info, err := host.Info()
	if err != nil {
		return "Unknown operating system"
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
}

type HostnameProvider struct{}

func (HostnameProvider) Key() string { return "Hostname" }

func (HostnameProvider) Value() string {
	info, err := host.Info()
	if err != nil || info.Hostname == "" {
		return "Unknown hostname"
	}
	return info.Hostname
}

type CPUProvider struct{}

func (CPUProvider) Key() string { return "CPU" }

func (CPUProvider) Value() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return fmt.Sprintf("Unknown CPU (%d logical cores)", runtime.NumCPU())
	}
	return fmt.Sprintf("%s (%d logical cores)", infos[0].ModelName, runtime.NumCPU())
}

type MemoryProvider struct{}

func (MemoryProvider) Key() string { return "Memory" }

func (MemoryProvider) Value() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "Unknown memory"
	}
	totalGb := float64(vm.Total) / (1 << 30)
	return fmt.Sprintf("%.1f GB total, %.1f%% used", totalGb, vm.UsedPercent)
}

type RuntimeProvider struct{}

func (RuntimeProvider) Key() string { return "Runtime" }

func (RuntimeProvider) Value() string {
	return fmt.Sprintf("%s on %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

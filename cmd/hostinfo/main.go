package main

import (
	"flag"
	"os"

	"github.com/olekukonko/tablewriter"

	"chat-relay/sysinfo"
)

// Prints the host fingerprint the server logs at boot, as a standalone
// table. Without flags every component is reported.
func main() {
	osFlag := flag.Bool("os", false, "Report the operating system")
	hostnameFlag := flag.Bool("hostname", false, "Report the hostname")
	cpuFlag := flag.Bool("cpu", false, "Report the CPU model")
	memoryFlag := flag.Bool("memory", false, "Report the total memory")
	runtimeFlag := flag.Bool("runtime", false, "Report the Go runtime")
	flag.Parse()

	var selected []sysinfo.Provider
	if *osFlag {
		selected = append(selected, sysinfo.OSProvider{})
	}
	if *hostnameFlag {
		selected = append(selected, sysinfo.HostnameProvider{})
	}
	if *cpuFlag {
		selected = append(selected, sysinfo.CPUProvider{})
	}
	if *memoryFlag {
		selected = append(selected, sysinfo.MemoryProvider{})
	}
	if *runtimeFlag {
		selected = append(selected, sysinfo.RuntimeProvider{})
	}
	if len(selected) == 0 {
		selected = sysinfo.All()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Component", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, provider := range selected {
		table.Append([]string{provider.Key(), provider.Value()})
	}
	table.Render()
}

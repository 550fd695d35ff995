// Package catalog holds the fixed list of network systems checked on the
// daily Nkana network system form.
package catalog

import "netcheck/pkg/model"

// Form header printed above the checklist.
const (
	Organisation = "MOPANI COPPER MINES"
	Department   = "INFORMATION TECHNOLOGY"
	FormCode     = "FM-IT-046C"
	FormTitle    = "NKANA DAILY NETWORK SYSTEM FORM"

	// Note is the operator instruction shown below the checklist.
	Note = "For Items 2 And 3, ping responses above 10ms should call for investigations."
)

var tasks = []model.Task{
	{ID: "1", System: "Internet Services", Services: services("Services: External", "Services: Internal")},
	{ID: "2", System: "Mufulira-Nkana Liquid Fibre Link", Services: services("Services: Connectivity", "Services: Ping Response Range")},
	{ID: "3", System: "Mufulira-Nkana MTN Fibre Back Up Link", Services: services("Services: Connectivity", "Services: Ping Response Range")},
	{ID: "4", System: "IT Board Room Codec", Services: services("Services: Connectivity & Testing")},
	{ID: "5", System: "Trust School", Services: services("Service: Connectivity")},
	{ID: "6", System: "VPN Connectivity", Services: services("Services: Connection Establishment", "Services: LAN Accessibility")},
	{ID: "7", System: "B2B VPN", Services: services("Services: Connection Establishment", "LAN Accessibility")},
	{ID: "8", System: "Wireless Access Points Connectivity", Services: services("Services: Internal WLAN", "Services: External Wireless")},
	{ID: "9", System: "Network SNMP Topology Monitoring", Services: services("Services: Wired LAN", "Services: Wireless Radios LAN")},
	{ID: "10", System: "Executives Residential Link", Services: services("Services: Internal", "External")},
	{ID: "11", System: "Multi Factor Authentication (MFA)", Services: services("Services: Connectivity", "Services: Internal")},
	{ID: "12", System: "Workspace/Mobile Phone e-mail", Services: services("Services: Send/Receive")},
}

func services(names ...string) []model.Service {
	out := make([]model.Service, 0, len(names))
	for _, n := range names {
		out = append(out, model.Service{Name: n, State: model.StateUnset})
	}
	return out
}

// Tasks returns a deep copy of the catalog in form order.
func Tasks() []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Len is the number of systems on the form.
func Len() int { return len(tasks) }

// Header returns the form header lines.
func Header() []string {
	return []string{Organisation, Department, FormCode, FormTitle}
}

package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"

	"github.com/olekukonko/tablewriter"
)

func formatBoolYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, report *api.Report) error {
	if flagJSONOutput {
		return printJSON(w, report)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Name", "Desired", "Current", "Outcome", "Detail"})
	for _, rr := range report.Resources {
		detail := rr.Reason
		if rr.Error != "" {
			detail = rr.Error
		}
		table.Append([]string{rr.Kind, rr.Name, string(rr.Desired), string(rr.Current), string(rr.Outcome), detail})
	}
	table.Render()
	return nil
}

func printVolumes(w io.Writer, vols []api.VolumeState) error {
	if flagJSONOutput {
		return printJSON(w, vols)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Status", "Ensure", "Peers", "Bricks"})
	for _, v := range vols {
		table.Append([]string{v.Name, v.Status.String(), string(v.Ensure), strings.Join(v.Peers, ","), strings.Join(v.Bricks, ",")})
	}
	table.Render()
	return nil
}

func printPeers(w io.Writer, peers []api.PeerState, isLocal func(string) bool) error {
	if flagJSONOutput {
		return printJSON(w, peers)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Hostname", "Local Alias"})
	for _, p := range peers {
		table.Append([]string{p.Hostname, formatBoolYesNo(isLocal(p.Hostname))})
	}
	table.Render()
	return nil
}

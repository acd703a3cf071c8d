package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mash-protocol/svcbus/pkg/iface"
	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/registry"
)

var errNoFiles = errors.New("no files given")

// runValidate checks every topology file and reports one line per file.
func runValidate(paths []string, w io.Writer) error {
	if len(paths) == 0 {
		return errNoFiles
	}

	failed := 0
	for _, path := range paths {
		m, err := registry.LoadFile(path, nil)
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s\n", path)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
			continue
		}
		fmt.Fprintf(w, "ok   %s (%s: %d threads, %d components)\n", path, m.Name, m.Threads.Len(), m.ComponentCount())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(paths))
	}
	return nil
}

type threadView struct {
	Name       string          `json:"name"`
	Timeout    string          `json:"timeout,omitempty"`
	Components []componentView `json:"components"`
}

type componentView struct {
	Role         string       `json:"role"`
	Services     []string     `json:"services,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Workers      []workerView `json:"workers,omitempty"`
}

type workerView struct {
	Name     string `json:"name"`
	Consumer string `json:"consumer"`
	Timeout  string `json:"timeout,omitempty"`
}

type modelView struct {
	Name    string       `json:"name"`
	Threads []threadView `json:"threads"`
}

func viewOf(m *registry.Model) modelView {
	mv := modelView{Name: m.Name}
	for _, t := range m.Threads.All() {
		tv := threadView{Name: t.Name, Components: []componentView{}}
		if t.Timeout > 0 {
			tv.Timeout = t.Timeout.String()
		}
		for _, c := range t.Components.All() {
			cv := componentView{Role: c.RoleName}
			for _, s := range c.Services.All() {
				cv.Services = append(cv.Services, s.Name+" "+s.Version.String())
			}
			for _, d := range c.Dependencies.All() {
				cv.Dependencies = append(cv.Dependencies, d.RoleName)
			}
			for _, wt := range c.Workers.All() {
				wv := workerView{Name: wt.Name, Consumer: wt.ConsumerName}
				if wt.Timeout > 0 {
					wv.Timeout = wt.Timeout.String()
				}
				cv.Workers = append(cv.Workers, wv)
			}
			tv.Components = append(tv.Components, cv)
		}
		mv.Threads = append(mv.Threads, tv)
	}
	return mv
}

// runShow prints a valid topology as an indented tree or as JSON.
func runShow(path string, asJSON bool, w io.Writer) error {
	m, err := registry.LoadFile(path, nil)
	if err != nil {
		return err
	}
	mv := viewOf(m)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(mv)
	}

	fmt.Fprintf(w, "%s\n", mv.Name)
	for _, t := range mv.Threads {
		fmt.Fprintf(w, "  thread %s", t.Name)
		if t.Timeout != "" {
			fmt.Fprintf(w, " (watchdog %s)", t.Timeout)
		}
		fmt.Fprintln(w)
		for _, c := range t.Components {
			fmt.Fprintf(w, "    component %s\n", c.Role)
			for _, s := range c.Services {
				fmt.Fprintf(w, "      implements %s\n", s)
			}
			for _, d := range c.Dependencies {
				fmt.Fprintf(w, "      depends on %s\n", d)
			}
			for _, wt := range c.Workers {
				fmt.Fprintf(w, "      worker %s -> %s", wt.Name, wt.Consumer)
				if wt.Timeout != "" {
					fmt.Fprintf(w, " (watchdog %s)", wt.Timeout)
				}
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

// runIface prints the numbered message table of each interface file.
func runIface(paths []string, w io.Writer) error {
	if len(paths) == 0 {
		return errNoFiles
	}

	for i, path := range paths {
		d, err := iface.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeMessageTable(w, d)
	}
	return nil
}

func writeMessageTable(w io.Writer, d *iface.Descriptor) {
	fmt.Fprintf(w, "%s %s (%s)\n", d.Name(), d.Version(), d.Type())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME\tDETAIL")
	for _, id := range d.Requests() {
		detail := "no response"
		if resp := d.ResponseID(id); resp != msgid.ResponseNone {
			detail = "-> " + d.MessageName(resp)
		}
		fmt.Fprintf(tw, "0x%04X\trequest\t%s\t%s\n", uint32(id), d.MessageName(id), detail)
	}
	for _, id := range d.Responses() {
		fmt.Fprintf(tw, "0x%04X\tresponse\t%s\t%d params\n", uint32(id), d.MessageName(id), d.ParamCount(id))
	}
	for _, id := range d.Attributes() {
		fmt.Fprintf(tw, "0x%04X\tattribute\t%s\t\n", uint32(id), d.MessageName(id))
	}
	tw.Flush()
}

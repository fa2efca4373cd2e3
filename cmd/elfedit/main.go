// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/elf"
	"github.com/saferwall/elf/elfio"
	"github.com/saferwall/elf/modsig"
)

var (
	wantSections bool
	wantSegments bool
	wantSymbols  bool
	wantAll      bool
)

func prettyPrint(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, b, "", "\t"); err != nil {
		return string(b)
	}
	return pretty.String()
}

func dump(cmd *cobra.Command, args []string) {
	filename := args[0]
	e, h, err := elfio.Open(filename)
	if err != nil {
		log.Printf("error while opening file: %s, reason: %s", filename, err)
		return
	}
	defer h.Close()

	if wantSections || wantAll {
		fmt.Println(prettyPrint(e.Sections()))
	}
	if wantSegments || wantAll {
		fmt.Println(prettyPrint(e.Segments()))
	}
	if wantSymbols || wantAll {
		symtab := e.FindSectionByName(".symtab")
		if symtab == nil {
			fmt.Fprintln(os.Stderr, "no .symtab section")
		} else {
			syms, err := elf.ParseSymbols(e.Class, e.Data, symtab, e.Sections())
			if err != nil {
				fmt.Fprintf(os.Stderr, "parsing symbols: %s\n", err)
			} else {
				fmt.Println(prettyPrint(syms))
			}
		}
	}
	if !wantSections && !wantSegments && !wantSymbols && !wantAll {
		fmt.Printf("class=%s data=%s type=%s machine=%s entry=0x%x sections=%d segments=%d\n",
			e.Class, e.Data, e.Type, e.Machine, e.Entry, len(e.Sections()), len(e.Segments()))
	}
}

func strip(cmd *cobra.Command, args []string) {
	filename := args[0]
	name, _ := cmd.Flags().GetString("section")
	out, _ := cmd.Flags().GetString("output")

	e, h, err := elfio.Open(filename)
	if err != nil {
		log.Printf("error while opening file: %s, reason: %s", filename, err)
		return
	}
	defer h.Close()

	if !e.RemoveSectionByName(name) {
		fmt.Fprintf(os.Stderr, "section %q not found\n", name)
		return
	}

	if out == "" {
		out = filename + ".stripped"
	}
	if err := elfio.Save(out, e, 0o755); err != nil {
		log.Printf("error while writing file: %s, reason: %s", out, err)
	}
}

func sig(cmd *cobra.Command, args []string) {
	filename := args[0]
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		log.Printf("error while reading file: %s, reason: %s", filename, err)
		return
	}
	s, err := modsig.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no module signature: %s\n", err)
		return
	}
	fmt.Printf("id_type=%d algo=%d hash=%d sig_len=%d\n", s.IDType, s.Algo, s.Hash, s.SigLen)
	if s.PKCS7 != nil && len(s.PKCS7.Signers) > 0 {
		fmt.Printf("signer_serial=%s\n", s.PKCS7.Signers[0].IssuerAndSerialNumber.SerialNumber.String())
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "elfedit",
		Short: "An ELF file parser and editor",
		Long:  "An ELF parser and editor built for binary analysis and rewriting, by Saferwall",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print("You are using version 0.0.1")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps the file",
		Long:  "Dumps the region tree of an ELF file: its sections, segments, and symbols",
		Args:  cobra.ExactArgs(1),
		Run:   dump,
	}

	var stripCmd = &cobra.Command{
		Use:   "strip",
		Short: "Removes a named section and writes the result to a new file",
		Args:  cobra.ExactArgs(1),
		Run:   strip,
	}

	var sigCmd = &cobra.Command{
		Use:   "sig",
		Short: "Prints the kernel-module PKCS#7 signature trailer, if present",
		Args:  cobra.ExactArgs(1),
		Run:   sig,
	}

	rootCmd.AddCommand(versionCmd, dumpCmd, stripCmd, sigCmd)

	dumpCmd.Flags().BoolVar(&wantSections, "sections", false, "Dump section table")
	dumpCmd.Flags().BoolVar(&wantSegments, "segments", false, "Dump program header table")
	dumpCmd.Flags().BoolVar(&wantSymbols, "symbols", false, "Dump .symtab")
	dumpCmd.Flags().BoolVar(&wantAll, "all", false, "Dump everything")

	stripCmd.Flags().String("section", "", "Name of the section to remove")
	stripCmd.Flags().String("output", "", "Output file path (default: <input>.stripped)")
	stripCmd.MarkFlagRequired("section")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

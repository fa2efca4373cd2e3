// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

// Fuzz is a go-fuzz entry point exercising Parse against arbitrary input.
func Fuzz(data []byte) int {
	e, err := Parse(data)
	if err != nil {
		return 0
	}
	if _, err := Render(e); err != nil {
		return 0
	}
	return 1
}

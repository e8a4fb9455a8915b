package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	panels "solarfarm/internal/panels/domain"
)

// IO prompts for values on a line-oriented text stream. Every read returns
// io.EOF once input is exhausted.
type IO struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewIO wraps in and out.
func NewIO(in io.Reader, out io.Writer) *IO {
	return &IO{in: bufio.NewScanner(in), out: out}
}

func (c *IO) Println(value string) {
	fmt.Fprintln(c.out, value)
}

func (c *IO) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadString prints prompt followed by ": " and returns the next line.
func (c *IO) ReadString(prompt string) (string, error) {
	fmt.Fprint(c.out, strings.TrimSpace(prompt)+": ")
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

// ReadRequiredString repeats prompt until a non-blank value is entered.
func (c *IO) ReadRequiredString(prompt string) (string, error) {
	for {
		value, err := c.ReadString(prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) != "" {
			return value, nil
		}
		c.Printf("[Error]\nYou must provide a value.\n")
	}
}

// ReadStringWithFallback returns current when the entry is blank.
func (c *IO) ReadStringWithFallback(prompt, current string) (string, error) {
	value, err := c.ReadString(fmt.Sprintf("%s (%s)", prompt, current))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return current, nil
	}
	return value, nil
}

// ReadInt repeats prompt until an integer in [min, max] is entered.
func (c *IO) ReadInt(prompt string, min, max int) (int, error) {
	for {
		value, err := c.ReadString(prompt)
		if err != nil {
			return 0, err
		}
		if n, ok := c.parseInt(value, min, max); ok {
			return n, nil
		}
	}
}

// ReadIntWithFallback is ReadInt that returns current on a blank entry.
func (c *IO) ReadIntWithFallback(prompt string, min, max, current int) (int, error) {
	for {
		value, err := c.ReadString(fmt.Sprintf("%s (%d)", prompt, current))
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(value) == "" {
			return current, nil
		}
		if n, ok := c.parseInt(value, min, max); ok {
			return n, nil
		}
	}
}

func (c *IO) parseInt(value string, min, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		c.Printf("[Error]\n'%s' is not a valid number.\n", value)
		return 0, false
	}
	if n < min || n > max {
		c.Printf("[Error]\nValue must be between %d and %d.\n", min, max)
		return 0, false
	}
	return n, true
}

// ReadBoolean is true only for "y" or "yes".
func (c *IO) ReadBoolean(prompt string) (bool, error) {
	value, err := c.ReadString(prompt)
	if err != nil {
		return false, err
	}
	return isYes(value), nil
}

// ReadBooleanWithFallback returns current when the entry is blank.
func (c *IO) ReadBooleanWithFallback(prompt string, current bool) (bool, error) {
	value, err := c.ReadString(fmt.Sprintf("%s (%s)", prompt, yesNo(current)))
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(value) == "" {
		return current, nil
	}
	return isYes(value), nil
}

// SelectMaterial lists the materials and reads a choice by number.
func (c *IO) SelectMaterial() (panels.Material, error) {
	options := c.printMaterials()
	n, err := c.ReadInt(fmt.Sprintf("Choose [1-%d]", len(options)), 1, len(options))
	if err != nil {
		return panels.MaterialUnknown, err
	}
	return options[n-1], nil
}

// SelectMaterialWithFallback returns current when the entry is blank.
func (c *IO) SelectMaterialWithFallback(current panels.Material) (panels.Material, error) {
	options := c.printMaterials()
	for {
		value, err := c.ReadString(fmt.Sprintf("Choose [1-%d] (%s)", len(options), current.DisplayText()))
		if err != nil {
			return panels.MaterialUnknown, err
		}
		if strings.TrimSpace(value) == "" {
			return current, nil
		}
		if n, ok := c.parseInt(value, 1, len(options)); ok {
			return options[n-1], nil
		}
	}
}

func (c *IO) printMaterials() []panels.Material {
	options := panels.Materials()
	c.Println("Select a Material:")
	for i, m := range options {
		c.Printf("%d. %s\n", i+1, m.DisplayText())
	}
	return options
}

func isYes(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "y" || value == "yes"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

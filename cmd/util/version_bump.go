package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const versionFile = "version.txt"

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run version_bump.go <patch|minor|major>")
		os.Exit(1)
	}
	bumpType := os.Args[1]

	// Release bumps happen on main only.
	branch, err := gitOutput("branch", "--show-current")
	if err != nil {
		fmt.Println("Error determining current branch:", err)
		os.Exit(1)
	}
	if branch != "main" {
		fmt.Printf("Error: release bumps must be performed on 'main', current branch is '%s'\n", branch)
		os.Exit(1)
	}

	data, err := os.ReadFile(versionFile)
	if err != nil {
		fmt.Println("Error reading version file:", err)
		os.Exit(1)
	}
	current := strings.TrimSpace(string(data))
	if !semver.IsValid(current) {
		fmt.Printf("Error: %s holds invalid version %q\n", versionFile, current)
		os.Exit(1)
	}

	next, err := bump(current, bumpType)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if err := os.WriteFile(versionFile, []byte(next+"\n"), 0644); err != nil {
		fmt.Println("Error writing version file:", err)
		os.Exit(1)
	}

	steps := [][]string{
		{"add", versionFile},
		{"commit", "-m", fmt.Sprintf("Bump version to %s", next)},
		{"tag", "-a", next, "-m", fmt.Sprintf("Release %s", next)},
		{"push", "origin", next},
	}
	for _, args := range steps {
		if err := gitRun(args...); err != nil {
			fmt.Printf("Error running git %s: %v\n", args[0], err)
			os.Exit(1)
		}
	}

	fmt.Printf("Released %s (was %s)\n", next, current)
}

// bump increments one component of a valid semver string like v1.2.3.
func bump(version, bumpType string) (string, error) {
	parts := strings.SplitN(strings.TrimPrefix(version, "v"), ".", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("version %q is not in v<major>.<minor>.<patch> form", version)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("version component %q is not a number", p)
		}
		nums[i] = n
	}

	switch bumpType {
	case "patch":
		nums[2]++
	case "minor":
		nums[1]++
		nums[2] = 0
	case "major":
		nums[0]++
		nums[1] = 0
		nums[2] = 0
	default:
		return "", fmt.Errorf("invalid bump type: %s", bumpType)
	}

	return fmt.Sprintf("v%d.%d.%d", nums[0], nums[1], nums[2]), nil
}

func gitOutput(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func gitRun(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

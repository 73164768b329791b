package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	helloCmdSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvSession, EnvSession, EnvConfig, EnvConfig, EnvVerbose, EnvVerbose)

	helloCmdPath := filepath.Join(tempDir, "rb-hello")
	srcFile := helloCmdPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloCmdSource), 0644); err != nil {
		t.Fatalf("Failed to write rb-hello source: %v", err)
	}
	cmd := exec.Command("go", "build", "-o", helloCmdPath, srcFile)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile rb-hello: %v", err)
	}

	rbBinaryPath := filepath.Join(tempDir, "rb")
	cmd = exec.Command("go", "build", "-o", rbBinaryPath, "../rb")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile rb binary: %v", err)
	}

	expectedSession := filepath.Join(tempDir, "books.json")
	expectedConfig := filepath.Join(tempDir, "portfolio.yaml")
	args := []string{
		"-session", expectedSession,
		"-config", expectedConfig,
		"-v",
		"hello",
		"world",
	}

	rbCmd := exec.Command(rbBinaryPath, args...)
	rbCmd.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}
	var stdout, stderr bytes.Buffer
	rbCmd.Stdout = &stdout
	rbCmd.Stderr = &stderr
	if err := rbCmd.Run(); err != nil {
		t.Fatalf("rb command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	expected := []string{
		fmt.Sprintf("%s=%s", EnvSession, expectedSession),
		fmt.Sprintf("%s=%s", EnvConfig, expectedConfig),
		fmt.Sprintf("%s=%s", EnvVerbose, strconv.FormatBool(true)),
		"args=[world]",
	}
	for _, line := range expected {
		if !strings.Contains(output, line) {
			t.Errorf("Expected output to contain %q, but got:\n%s", line, output)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("missing", nil); found || code != 0 {
		t.Errorf("RunExtension(missing) = %v, %d, want false, 0", found, code)
	}
}

package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const securityConfigRel = "backend/src/main/java/com/zplus/counselling/config/SecurityConfig.java"

func newProject(root string) *Project {
	return &Project{
		Root:           root,
		FrontendDir:    DefaultFrontendDir,
		BackendDir:     DefaultBackendDir,
		SecurityConfig: DefaultSecurityConfig,
		Walker:         NewWalker(root, DefaultExcludeDirs, false),
	}
}

func noteTexts(s Section) string {
	var b strings.Builder
	for _, n := range s.Notes {
		b.WriteString(n.Severity.Marker())
		b.WriteString(" ")
		b.WriteString(n.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev    Severity
		want   string
		marker string
	}{
		{SeverityError, "error", "❌"},
		{SeverityWarning, "warning", "⚠️"},
		{SeverityInfo, "info", "ℹ️"},
		{SeverityOK, "ok", "✅"},
		{Severity(99), "unknown", "?"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
		if got := tt.sev.Marker(); got != tt.marker {
			t.Errorf("Severity(%d).Marker() = %q, want %q", tt.sev, got, tt.marker)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"error", SeverityError},
		{"WARNING", SeverityWarning},
		{"info", SeverityInfo},
		{"ok", SeverityOK},
		{"bogus", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.input); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSecrets_FileListedOnce(t *testing.T) {
	root := makeTree(t, map[string]string{
		"backend/src/config.js": "const api_key = \"abcdefghijklmnopqrst\";\nconst password = \"hunter2hunter2\";\n",
	})

	s := (&secretsCheck{}).Run(newProject(root))
	if len(s.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(s.Findings))
	}
	want := filepath.Join(root, "backend", "src", "config.js")
	if s.Findings[0].Path != want {
		t.Errorf("path = %q, want %q", s.Findings[0].Path, want)
	}
	if s.Worst() != SeverityWarning {
		t.Errorf("worst = %v, want warning", s.Worst())
	}
	if len(s.Notes) != 1 || len(s.Notes[0].Items) != 1 {
		t.Errorf("notes = %+v, want one note with one item", s.Notes)
	}
}

func TestSecrets_Patterns(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    bool
	}{
		{"api key", "a.ts", `API-KEY = "abcdefghijklmnopqrst"`, true},
		{"api key too short", "a.ts", `api_key = "abcdefghijklmnopqrs"`, false},
		{"password", "application.properties", `password='s3cr3t-pw'`, true},
		{"password too short", "application.properties", `password='short'`, false},
		{"secret", "app.yml", `secret = "0123456789abcdefghij"`, true},
		{"token", "Client.java", `token="0123456789-abcdefghij"`, true},
		{"firebase config", "fb.tsx", `export const FIREBASE_CONFIG = {}`, true},
		{"firebase dashed", "fb.yaml", `FIREBASE-CONFIG: x`, true},
		{"colon assignment ignored", "a.js", `api_key: "abcdefghijklmnopqrst"`, false},
		{"wrong extension", "notes.md", `api_key = "abcdefghijklmnopqrst"`, false},
		{"go file ignored", "main.go", `token = "0123456789abcdefghij"`, false},
		{"non-ascii value", "a.ts", `api_key = "ééééééééééééééééééééé"`, true},
		{"non-breaking space", "a.ts", "password\u00a0=\u00a0'пароль123'", true},
		{"punctuation in value", "a.ts", `secret = "0123456789.abcdefghij"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := makeTree(t, map[string]string{tt.file: tt.content})
			s := (&secretsCheck{}).Run(newProject(root))
			if got := len(s.Findings) == 1; got != tt.want {
				t.Errorf("found = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecrets_SkipsExcludedDirs(t *testing.T) {
	root := makeTree(t, map[string]string{
		"my-frontend-app/node_modules/pkg/index.js": `api_key = "abcdefghijklmnopqrst"`,
		"backend/target/app.properties":             `password = "supersecret"`,
		".git/hooks/x.js":                           `token = "0123456789abcdefghij"`,
	})

	s := (&secretsCheck{}).Run(newProject(root))
	if len(s.Findings) != 0 {
		t.Errorf("findings = %+v, want none", s.Findings)
	}
	if !strings.Contains(noteTexts(s), "✅ No obvious hardcoded secrets found.") {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

func TestSecrets_SkipsNonUTF8(t *testing.T) {
	root := makeTree(t, map[string]string{
		"blob.js": "\xff\xfe api_key = \"abcdefghijklmnopqrst\"",
	})
	s := (&secretsCheck{}).Run(newProject(root))
	if len(s.Findings) != 0 {
		t.Errorf("findings = %+v, want none for non-utf8 file", s.Findings)
	}
}

func TestSecrets_WalkOrder(t *testing.T) {
	root := makeTree(t, map[string]string{
		"z.js":     `secret = "0123456789abcdefghij"`,
		"a.js":     `secret = "0123456789abcdefghij"`,
		"m/b.java": `secret = "0123456789abcdefghij"`,
	})
	s := (&secretsCheck{}).Run(newProject(root))
	items := s.Notes[0].Items
	want := []string{
		filepath.Join(root, "a.js"),
		filepath.Join(root, "m", "b.java"),
		filepath.Join(root, "z.js"),
	}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestEnvConfig_Localhost(t *testing.T) {
	root := makeTree(t, map[string]string{
		"docker-compose.prod.yml":                   "DB_HOST: LocalHost:5432\n",
		"deploy/nginx.conf":                         "server_name example.com;\n",
		"my-frontend-app/.env.production":           "VITE_API=http://localhost:8080\n",
		"docker-compose.yml":                        "DB_HOST: localhost\n",
		"backend/application-prod.properties.bak":   "url=http://LOCALHOST\n",
		"my-frontend-app/node_modules/x/nginx.conf": "localhost",
	})

	s := (&envConfigCheck{}).Run(newProject(root))
	got := make(map[string]bool)
	for _, f := range s.Findings {
		rel, _ := filepath.Rel(root, f.Path)
		got[filepath.ToSlash(rel)] = true
	}

	for _, want := range []string{
		"docker-compose.prod.yml",
		"my-frontend-app/.env.production",
		"backend/application-prod.properties.bak",
	} {
		if !got[want] {
			t.Errorf("missing finding for %s (got %v)", want, got)
		}
	}
	if got["deploy/nginx.conf"] {
		t.Error("nginx.conf without localhost should not be flagged")
	}
	if got["docker-compose.yml"] {
		t.Error("non-production compose file should not be flagged")
	}
	if len(s.Findings) != 3 {
		t.Errorf("findings = %d, want 3", len(s.Findings))
	}
	if !strings.HasPrefix(noteTexts(s), "⚠️ **'localhost' found in production-related configs:**") {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

func TestEnvConfig_SymlinkedConfig(t *testing.T) {
	root := makeTree(t, map[string]string{
		"deploy/env.prod": "VITE_API=http://localhost:8080\n",
	})
	link := filepath.Join(root, ".env.production")
	if err := os.Symlink(filepath.Join(root, "deploy", "env.prod"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	s := (&envConfigCheck{}).Run(newProject(root))
	if len(s.Findings) != 1 || s.Findings[0].Path != link {
		t.Fatalf("findings = %+v, want the symlinked .env.production", s.Findings)
	}
}

func TestEnvConfig_Clean(t *testing.T) {
	root := makeTree(t, map[string]string{
		"nginx.conf": "proxy_pass https://api.example.com;\n",
	})
	s := (&envConfigCheck{}).Run(newProject(root))
	if len(s.Findings) != 0 {
		t.Errorf("findings = %+v, want none", s.Findings)
	}
	if noteTexts(s) != "✅ Production configs seem to use external hostnames.\n" {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

func TestFrontend_CountsFiles(t *testing.T) {
	root := makeTree(t, map[string]string{
		"my-frontend-app/src/App.tsx":           "console.log('hi');\nconsole.log('again');\n",
		"my-frontend-app/src/util/log.ts":       "export const log = (m: string) => m;\n",
		"my-frontend-app/src/old.jsx":           "console.log('jsx is not scanned');\n",
		"my-frontend-app/fix_build.cjs":         "console.log('outside src');\n",
		"my-frontend-app/src/debug.js":          "console.log ('spaced call');\n",
		"my-frontend-app/src/node_modules/x.js": "console.log('dep');\n",
	})

	s := (&frontendLogCheck{}).Run(newProject(root))
	if len(s.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(s.Findings))
	}
	if !strings.Contains(noteTexts(s), "**1 file contains `console.log` statements.**") {
		t.Errorf("notes = %q", noteTexts(s))
	}
	if len(s.Notes[0].Items) != 0 {
		t.Errorf("frontend note should not list paths, got %v", s.Notes[0].Items)
	}
}

func TestFrontend_Plural(t *testing.T) {
	root := makeTree(t, map[string]string{
		"my-frontend-app/src/a.ts": "console.log(1)",
		"my-frontend-app/src/b.js": "console.log(2)",
	})
	s := (&frontendLogCheck{}).Run(newProject(root))
	if !strings.Contains(noteTexts(s), "**2 files contain `console.log` statements.**") {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

func TestFrontend_NoneFound(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"clean src", map[string]string{"my-frontend-app/src/a.ts": "logger.info('x')"}},
		{"no frontend dir", map[string]string{"README.md": "console.log("}},
		{"no src dir", map[string]string{"my-frontend-app/index.js": "console.log(1)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := (&frontendLogCheck{}).Run(newProject(makeTree(t, tt.files)))
			if noteTexts(s) != "✅ No `console.log` statements found in `src`.\n" {
				t.Errorf("notes = %q", noteTexts(s))
			}
		})
	}
}

func TestBackend_SecurityConfig(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     []string
		findings int
	}{
		{
			name:     "csrf disabled",
			content:  "http.csrf().disable();",
			want:     []string{"⚠️ CSRF is disabled in `SecurityConfig.java`."},
			findings: 1,
		},
		{
			name:     "permit all",
			content:  `.requestMatchers("/api/auth/**").permitAll()`,
			want:     []string{"ℹ️ `SecurityConfig.java` uses `permitAll()`."},
			findings: 1,
		},
		{
			name:    "both",
			content: "http.csrf().disable().authorizeRequests().anyRequest().permitAll();",
			want: []string{
				"ℹ️ `SecurityConfig.java` uses `permitAll()`.",
				"⚠️ CSRF is disabled in `SecurityConfig.java`.",
			},
			findings: 1,
		},
		{
			name:     "clean",
			content:  "http.authorizeHttpRequests(a -> a.anyRequest().authenticated());",
			want:     []string{"✅ `SecurityConfig.java` does not use `permitAll()` or disable CSRF."},
			findings: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := makeTree(t, map[string]string{securityConfigRel: tt.content})
			s := (&backendSecurityCheck{}).Run(newProject(root))
			out := noteTexts(s)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("notes %q missing %q", out, w)
				}
			}
			if len(s.Notes) != len(tt.want) {
				t.Errorf("notes = %d, want %d", len(s.Notes), len(tt.want))
			}
			if len(s.Findings) != tt.findings {
				t.Errorf("findings = %d, want %d", len(s.Findings), tt.findings)
			}
		})
	}
}

func TestBackend_NotFound(t *testing.T) {
	root := makeTree(t, map[string]string{"backend/pom.xml": "<project/>"})
	s := (&backendSecurityCheck{}).Run(newProject(root))
	if noteTexts(s) != "⚠️ `SecurityConfig.java` not found in expected location.\n" {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

func TestBackend_Unreadable(t *testing.T) {
	root := t.TempDir()
	// a directory at the file path exists but cannot be read as a file
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(securityConfigRel)), 0o755); err != nil {
		t.Fatal(err)
	}
	s := (&backendSecurityCheck{}).Run(newProject(root))
	if noteTexts(s) != "❌ Could not read `SecurityConfig.java`.\n" {
		t.Errorf("notes = %q", noteTexts(s))
	}
	if s.Worst() != SeverityError {
		t.Errorf("worst = %v, want error", s.Worst())
	}
}

func TestBackend_CustomLayout(t *testing.T) {
	root := makeTree(t, map[string]string{
		"server/config/Security.java": "csrf().disable()",
	})
	p := newProject(root)
	p.BackendDir = "server"
	p.SecurityConfig = "config/Security.java"

	s := (&backendSecurityCheck{}).Run(p)
	if !strings.Contains(noteTexts(s), "CSRF is disabled in `Security.java`") {
		t.Errorf("notes = %q", noteTexts(s))
	}
}

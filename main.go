package main

import (
	"flag"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/etnz/rpm-sign/rpm"
	"github.com/etnz/rpm-sign/sign"
)

// Profile is a business object holding a signing configuration loaded
// from a YAML file. Command-line flags take precedence over it.
type Profile struct {
	// Key is the path to the ASCII-armored private key file.
	Key string `yaml:"key"`
	// Hash is the digest algorithm used for the signature (default sha256).
	Hash string `yaml:"hash"`
	// Format is the target package format version (3, 4 or 6).
	Format int `yaml:"format"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rpm-sign <command> [flags]")
		fmt.Println("Commands: sign, info")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sign":
		signPackage(os.Args[2:])
	case "info":
		packageInfo(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func signPackage(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	in := fs.String("in", "", "Path to the package file to sign")
	out := fs.String("out", "", "Path of the re-signed package to write")
	keyPath := fs.String("key", "", "Path to the ASCII-armored private key")
	hashName := fs.String("hash", "", "Digest algorithm for the signature (default sha256)")
	formatVersion := fs.Int("format", 0, "Package format version (default 4)")
	profilePath := fs.String("profile", "", "Path to a YAML signing profile")
	fs.Parse(args)

	profile, err := decodeProfile(*profilePath)
	if err != nil {
		fmt.Printf("Fatal: Could not read or parse profile %s: %v\n", *profilePath, err)
		os.Exit(1)
	}
	if *keyPath == "" {
		*keyPath = profile.Key
	}
	if *hashName == "" {
		*hashName = profile.Hash
	}
	if *formatVersion == 0 {
		*formatVersion = profile.Format
	}
	if *hashName == "" {
		*hashName = string(rpm.HashSHA256)
	}
	if *formatVersion == 0 {
		*formatVersion = int(rpm.FormatDefault)
	}
	if *in == "" || *out == "" || *keyPath == "" {
		fmt.Println("Fatal: -in, -out and -key (or a profile providing the key) are required")
		os.Exit(1)
	}

	format, err := rpm.ParseFormat(*formatVersion)
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}

	passphrase := os.Getenv("RPM_SIGN_PASSPHRASE")

	key, err := os.Open(*keyPath)
	if err != nil {
		fmt.Printf("Fatal: Could not open key file %s: %v\n", *keyPath, err)
		os.Exit(1)
	}
	defer key.Close()

	// Output goes to a plain file; callers needing atomicity should
	// point -out at a staging path and rename afterwards.
	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Printf("Fatal: Could not create output file %s: %v\n", *out, err)
		os.Exit(1)
	}

	if err := sign.Sign(*in, key, passphrase, outFile, rpm.HashAlgorithm(*hashName), format); err != nil {
		outFile.Close()
		os.Remove(*out)
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
	if err := outFile.Close(); err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Signed %s -> %s\n", *in, *out)
}

func packageInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := fs.String("in", "", "Path to the package file to inspect")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("Fatal: -in is required")
		os.Exit(1)
	}
	f, err := os.Open(*in)
	if err != nil {
		fmt.Printf("Fatal: Could not open %s: %v\n", *in, err)
		os.Exit(1)
	}
	defer f.Close()

	pkg, err := rpm.ReadPackage(f)
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}

	hdr := pkg.PayloadHeader
	fmt.Printf("Name:             %s\n", hdr.GetString(rpm.TagName))
	fmt.Printf("Version:          %s-%s\n", hdr.GetString(rpm.TagVersion), hdr.GetString(rpm.TagRelease))
	fmt.Printf("Architecture:     %s\n", hdr.GetString(rpm.TagArch))
	fmt.Printf("Lead name:        %s\n", pkg.Lead.Name)
	fmt.Printf("Signature header: offset %d, %d bytes\n", pkg.SignatureRegion.Start, pkg.SignatureRegion.Length)
	fmt.Printf("Payload header:   offset %d, %d bytes\n", pkg.PayloadRegion.Start, pkg.PayloadRegion.Length)
	fmt.Printf("Payload:          offset %d, archive size %d\n", pkg.PayloadStart, pkg.ArchiveSize)
}

// decodeProfile loads a YAML signing profile. A missing path yields an
// empty profile so flags alone are enough.
func decodeProfile(path string) (Profile, error) {
	var p Profile
	if path == "" {
		return p, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(content, &p); err != nil {
		return p, err
	}
	return p, nil
}

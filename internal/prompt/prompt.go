package prompt

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/czh0526/idkeystore/internal/zero"
	"github.com/czh0526/idkeystore/seed"
)

// promptList prompts the user with the given prefix, list of valid responses,
// and default list entry to use.  The function will repeat the prompt to the
// user until they enter a valid response.
func promptList(reader *bufio.Reader, w io.Writer, prefix string,
	validResponses []string, defaultEntry string) (string, error) {

	// Setup the prompt according to the parameters.
	validStrings := strings.Join(validResponses, "/")
	var prompt string
	if defaultEntry != "" {
		prompt = fmt.Sprintf("%s (%s) [%s]: ", prefix, validStrings,
			defaultEntry)
	} else {
		prompt = fmt.Sprintf("%s (%s): ", prefix, validStrings)
	}

	// Prompt the user until one of the valid responses is given.
	for {
		fmt.Fprint(w, prompt)
		reply, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(strings.ToLower(reply))
		if reply == "" {
			reply = defaultEntry
		}

		for _, validResponse := range validResponses {
			if reply == validResponse {
				return reply, nil
			}
		}
	}
}

// promptListBool prompts the user for a boolean (yes/no) with the given
// prefix.
func promptListBool(reader *bufio.Reader, w io.Writer, prefix string,
	defaultEntry string) (bool, error) {

	valid := []string{"n", "no", "y", "yes"}
	response, err := promptList(reader, w, prefix, valid, defaultEntry)
	if err != nil {
		return false, err
	}
	return response == "yes" || response == "y", nil
}

// Seed prompts the user whether they want to use an existing HD seed. When
// they do, it reads a hex encoded seed until a valid one is entered,
// otherwise a new random seed is generated and shown.
func Seed(reader *bufio.Reader, w io.Writer) (seed.HDSeed, error) {
	useExisting, err := promptListBool(reader, w, "Do you have an "+
		"existing seed you want to use?", "no")
	if err != nil {
		return seed.HDSeed{}, err
	}

	if !useExisting {
		s, err := seed.Random()
		if err != nil {
			return seed.HDSeed{}, err
		}

		fmt.Fprintln(w, "Your seed is:")
		fmt.Fprintf(w, "%x\n", s.Bytes())
		fmt.Fprintln(w, "IMPORTANT: Keep the seed in a safe place as "+
			"every key derived from it depends on it.")
		return s, nil
	}

	for {
		fmt.Fprint(w, "Enter existing seed: ")
		seedStr, err := reader.ReadString('\n')
		if err != nil {
			return seed.HDSeed{}, err
		}
		seedStr = strings.TrimSpace(strings.ToLower(seedStr))

		raw, err := hex.DecodeString(seedStr)
		if err == nil {
			s, err := seed.New(raw)
			zero.Bytes(raw)
			if err == nil {
				fmt.Fprintln(w)
				return s, nil
			}
		}

		fmt.Fprintf(w, "Invalid seed specified.  Must be a "+
			"hexadecimal value that is at least %d bits and "+
			"at most %d bits\n", hdkeychain.MinSeedBytes*8,
			hdkeychain.MaxSeedBytes*8)
	}
}

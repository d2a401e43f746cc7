package authflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
)

var (
	blink     = color.New(color.BlinkSlow)
	italic    = color.New(color.Italic)
	param     = color.New(color.Italic, color.FgBlue, color.BgHiWhite)
	warn      = color.New(color.FgHiRed)
	underline = color.New(color.Underline)

	line = strings.Repeat("-=", 40)
)

// noSignUp can be embedded to prevent signing up.
type noSignUp struct{}

func (c noSignUp) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("not implemented")
}

func (c noSignUp) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

// TermAuth implements authentication via terminal.
type TermAuth struct {
	noSignUp

	phone string
	in    *bufio.Reader
}

// NewTermAuth returns the terminal authenticator.  If phone is empty, it is
// requested from the user.  in is the user input, it should be the same
// reader that is used for other prompts.
func NewTermAuth(phone string, in io.Reader) TermAuth {
	return TermAuth{phone: phone, in: bufio.NewReader(in)}
}

func (a TermAuth) input() *bufio.Reader {
	if a.in == nil {
		return bufio.NewReader(os.Stdin)
	}
	return a.in
}

func (a TermAuth) Phone(_ context.Context) (string, error) {
	if a.phone != "" {
		return a.phone, nil
	}
	fmt.Print("Enter your phone number (with country code, e.g., +1234567890): ")
	return readln(a.input())
}

// Password is only called if the account has the 2FA enabled.
func (a TermAuth) Password(ctx context.Context) (string, error) {
	defer fmt.Println()
	fmt.Print("Enter your 2FA password (won't be shown): ")
	return readpass(ctx)
}

func getCodeSpecifics(code *tg.AuthSentCode) (string, int) {
	digits := func(where string, n int) string {
		return fmt.Sprintf("The code %s.\nEnter exactly %d digits.", where, n)
	}

	switch val := code.Type.(type) {
	case *tg.AuthSentCodeTypeApp:
		return digits("was sent through the telegram app", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeSMS:
		return digits("will be sent via a text message (SMS)", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeCall:
		return digits("will be sent via a phone call, and a synthesized voice will tell you what to input", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeFlashCall:
		return fmt.Sprintf("The code will be sent via a flash phone call, that will be closed immediately.\nThe phone code will then be the phone number itself, just make sure that the\nphone number matches the specified pattern: %q (%d characters)", val.GetPattern(), len(val.GetPattern())), len(val.GetPattern())
	case *tg.AuthSentCodeTypeMissedCall:
		return fmt.Sprintf("The code will be sent via a flash phone call, that will be closed immediately.\nThe last digits of the phone number that calls are the code that must be entered.\nThe phone call prefix will be: %s and the length of the code is %d", val.GetPrefix(), val.GetLength()), val.GetLength()
	default:
		return "Enter the code you have received.", 0
	}
}

func getCodeTimeout(code *tg.AuthSentCode) (string, time.Duration) {
	timeout, ok := code.GetTimeout()
	if !ok {
		return "", 30 * time.Minute
	}
	ret := time.Duration(timeout) * time.Second
	return fmt.Sprintf(" (enter code within %s)", ret), ret
}

func (a TermAuth) Code(_ context.Context, code *tg.AuthSentCode) (string, error) {
	codeHelp, length := getCodeSpecifics(code)
	timeoutHelp, timeoutIn := getCodeTimeout(code)
	timeout := time.Now().Add(timeoutIn)

	for {
		if time.Now().After(timeout) {
			return "", errors.New("operation timed out")
		}
		fmt.Printf("(i) TIP: %s\nEnter code%s: ", codeHelp, timeoutHelp)
		input, err := readln(a.input())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("login aborted")
			}
			return "", err
		}
		if validCode(input, length) {
			return input, nil
		}
		fmt.Println("*** Invalid code, try again [Press Ctrl+C to abort] ***")
	}
}

// validCode checks the length of the code, if the length is known.
func validCode(input string, length int) bool {
	return input != "" && (length == 0 || len(input) == length)
}

// Instructions prints the instructions for obtaining the API credentials.
func Instructions(w io.Writer) {
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "API_ID and API_HASH are not set.  To get them, follow the instructions:\n\n")
	fmt.Fprintf(w, "\t1.  Login to telegram \"API Development tools\":\n")
	fmt.Fprintf(w, "\t\t%s %s %s\n", blink.Sprint("->"), italic.Sprint("https://my.telegram.org/apps"), blink.Sprint("<-"))
	fmt.Fprintf(w, "\t2.  Fill in the form:  %s, %s and %s can be any values\n\t    you like;\n"+
		"\t3.  Choose \"%s\" platform\n"+
		"\t4.  Click <Create Application> button.\n\n",
		underline.Sprint("App title"), underline.Sprint("Short Name"), underline.Sprint("URL"),
		underline.Sprint("Desktop"))
	fmt.Fprintf(w, "Put the App '%s' and App '%s' values into the .env file:\n\n"+
		"\tAPI_ID=12345\n\tAPI_HASH=0123456789abcdef\n\n"+
		"or pass them with -api-id and -api-hash flags.  After the first successful\n"+
		"login the credentials are encrypted and saved on your device.  You can delete\n"+
		"them any time starting with -reset flag.\n\n",
		param.Sprint(" api_id "), param.Sprint(" api_hash "))
	warn.Fprintf(w, "VERY IMPORTANT: This is the key to your account, keep it secret, never share\n"+
		"it with anyone, never publish it online.\n")
	fmt.Fprintln(w, line)
}

func readln(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readpass(_ context.Context) (string, error) {
	stdin := int(os.Stdin.Fd())

	bytePwd, err := term.ReadPassword(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePwd)), nil
}

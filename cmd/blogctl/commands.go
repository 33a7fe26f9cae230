package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"blogcraft/internal/client"
	"blogcraft/internal/markdown"
)

// app carries what every command needs.
type app struct {
	client *client.Client
	stdin  io.Reader
	stdout io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":     cmdRegister,
	"login":        cmdLogin,
	"logout":       cmdLogout,
	"whoami":       cmdWhoami,
	"posts":        cmdPosts,
	"post":         cmdPost,
	"new-post":     cmdNewPost,
	"publish":      cmdSetStatus("published"),
	"unpublish":    cmdSetStatus("draft"),
	"rm-post":      cmdRemovePost,
	"categories":   cmdCategories,
	"add-category": cmdAddCategory,
	"rm-category":  cmdRemoveCategory,
	"upload":       cmdUpload,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// oneArg parses flags and returns the single positional argument.
func oneArg(fs *flag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

// readPassword prompts without echo on a terminal and otherwise reads one
// line, which lets scripts pipe the password in.
func (a *app) readPassword(prompt string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stdout, prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func credentialsCommand(name string, call func(*client.Client, context.Context, string, string) error) command {
	return func(ctx context.Context, a *app, args []string) error {
		fs := newFlagSet(name)
		email := fs.String("email", "", "account email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *email == "" {
			return fmt.Errorf("%s: -email is required", name)
		}
		pw, err := a.readPassword("Password: ")
		if err != nil {
			return err
		}
		if err := call(a.client, ctx, *email, pw); err != nil {
			return err
		}
		return cmdWhoami(ctx, a, nil)
	}
}

var (
	cmdRegister = credentialsCommand("register", func(c *client.Client, ctx context.Context, email, pw string) error {
		_, err := c.Register(ctx, email, pw)
		return err
	})
	cmdLogin = credentialsCommand("login", func(c *client.Client, ctx context.Context, email, pw string) error {
		_, err := c.Login(ctx, email, pw)
		return err
	})
)

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	sess := a.client.Session()
	if sess == nil {
		fmt.Fprintln(a.stdout, "not logged in")
		return nil
	}
	role := "reader"
	if sess.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.stdout, "%s (%s)\n", sess.Email, role)
	return nil
}

func cmdPosts(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("posts")
	all := fs.Bool("all", false, "include drafts (admin only)")
	status := fs.String("status", "", "only posts with this status")
	category := fs.String("category", "", "only posts in this category (id or name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkStatus("posts", *status); err != nil {
		return err
	}

	posts, err := a.client.ListPosts(ctx, *all)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSLUG\tCATEGORY\tCREATED")
	for _, p := range posts {
		if *status != "" && p.Status != *status {
			continue
		}
		if *category != "" && !inCategory(p, *category) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Status, p.Slug, p.CategoryName, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func inCategory(p client.Post, ref string) bool {
	if p.CategoryID != nil && *p.CategoryID == ref {
		return true
	}
	return strings.EqualFold(p.CategoryName, ref)
}

func checkStatus(cmd, status string) error {
	switch status {
	case "", "draft", "published":
		return nil
	}
	return fmt.Errorf("%s: -status must be draft or published, got %q", cmd, status)
}

func cmdPost(ctx context.Context, a *app, args []string) error {
	ref, err := oneArg(newFlagSet("post"), args, "a post id or slug")
	if err != nil {
		return err
	}
	p, err := a.client.GetPost(ctx, ref)
	if err != nil {
		return err
	}
	printPost(a.stdout, p)
	return nil
}

func printPost(w io.Writer, p *client.Post) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title\t%s\n", p.Title)
	fmt.Fprintf(tw, "Slug\t%s\n", p.Slug)
	fmt.Fprintf(tw, "Status\t%s\n", p.Status)
	fmt.Fprintf(tw, "Category\t%s\n", p.CategoryName)
	if p.FeaturedImage != nil {
		fmt.Fprintf(tw, "Image\t%s\n", *p.FeaturedImage)
	}
	if p.Excerpt != nil {
		fmt.Fprintf(tw, "Excerpt\t%s\n", *p.Excerpt)
	}
	fmt.Fprintf(tw, "Created\t%s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(tw, "Updated\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	tw.Flush()
}

func cmdNewPost(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("new-post")
	var in client.PostInput
	fs.StringVar(&in.Title, "title", "", "post title")
	contentFile := fs.String("content-file", "", "file with the HTML body, - for stdin")
	fs.StringVar(&in.Slug, "slug", "", "explicit slug")
	fs.StringVar(&in.Excerpt, "excerpt", "", "excerpt, derived from the content when empty")
	fs.StringVar(&in.CategoryID, "category", "", "category id")
	fs.StringVar(&in.FeaturedImage, "image", "", "featured image URL")
	publish := fs.Bool("publish", false, "publish immediately")
	asMarkdown := fs.Bool("markdown", false, "render the content as Markdown (implied by a .md file)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Title == "" || *contentFile == "" {
		return errors.New("new-post: -title and -content-file are required")
	}

	content, err := a.readContent(*contentFile, *asMarkdown)
	if err != nil {
		return err
	}
	in.Content = content
	if *publish {
		in.Status = "published"
	}

	p, err := a.client.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	printPost(a.stdout, p)
	return nil
}

// readContent loads a post body from path, or stdin for "-", rendering it
// when it is Markdown.
func (a *app) readContent(path string, asMarkdown bool) (string, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(a.stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if asMarkdown || markdown.IsMarkdownFile(path) {
		return markdown.ToHTML(string(body))
	}
	return string(body), nil
}

func cmdEditPost(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit-post")
	var in client.PostInput
	fs.StringVar(&in.Title, "title", "", "new title")
	contentFile := fs.String("content-file", "", "file with the new HTML body, - for stdin")
	fs.StringVar(&in.Excerpt, "excerpt", "", "new excerpt")
	fs.StringVar(&in.CategoryID, "category", "", "new category id")
	fs.StringVar(&in.FeaturedImage, "image", "", "new featured image URL")
	fs.StringVar(&in.Status, "status", "", "draft or published")
	asMarkdown := fs.Bool("markdown", false, "render the content as Markdown (implied by a .md file)")
	id, err := oneArg(fs, args, "a post id")
	if err != nil {
		return err
	}
	if err := checkStatus("edit-post", in.Status); err != nil {
		return err
	}
	if *contentFile != "" {
		if in.Content, err = a.readContent(*contentFile, *asMarkdown); err != nil {
			return err
		}
	}
	if in == (client.PostInput{}) {
		return errors.New("edit-post: nothing to change")
	}

	p, err := a.client.UpdatePost(ctx, id, in)
	if err != nil {
		return err
	}
	printPost(a.stdout, p)
	return nil
}

func cmdSetStatus(status string) command {
	return func(ctx context.Context, a *app, args []string) error {
		name := "publish"
		if status == "draft" {
			name = "unpublish"
		}
		id, err := oneArg(newFlagSet(name), args, "a post id")
		if err != nil {
			return err
		}
		p, err := a.client.UpdatePost(ctx, id, client.PostInput{Status: status})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s is now %s\n", p.Slug, p.Status)
		return nil
	}
}

func cmdRemovePost(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(newFlagSet("rm-post"), args, "a post id")
	if err != nil {
		return err
	}
	if err := a.client.DeletePost(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "post removed")
	return nil
}

func cmdCategories(ctx context.Context, a *app, _ []string) error {
	cats, err := a.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG\tDESCRIPTION")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, c.Description)
	}
	return tw.Flush()
}

func cmdAddCategory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-category")
	var in client.CategoryInput
	fs.StringVar(&in.Name, "name", "", "category name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Slug, "slug", "", "explicit slug")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Name == "" {
		return errors.New("add-category: -name is required")
	}

	c, err := a.client.CreateCategory(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\t%s\n", c.ID, c.Slug)
	return nil
}

func cmdRemoveCategory(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(newFlagSet("rm-category"), args, "a category id")
	if err != nil {
		return err
	}
	if err := a.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "category removed")
	return nil
}

func cmdUpload(ctx context.Context, a *app, args []string) error {
	path, err := oneArg(newFlagSet("upload"), args, "a file")
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	u, err := a.client.UploadImage(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, u)
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/hub"
	"github.com/runger/notepadcc/internal/storage"
)

var (
	filesFolder       string
	filesTargetFolder string
	filesFilter       string
	filesSort   string
	filesDesc   bool
	filesJSON   bool
	filesDir    string
	filesLimit  int
)

var filesCmd = &cobra.Command{
	Use:     "files",
	Short:   "Manage documents stored in the file hub",
	GroupID: groupFiles,
	Long: `Manage documents stored in the file hub.

The hub keeps documents in a folder tree inside the local database.
Folders are addressed by id (see "notepadcc files tree"), files by the id
shown in "notepadcc files ls".`,
}

var filesTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the folder tree",
	Args:  cobra.NoArgs,
	RunE:  runFilesTree,
}

var filesListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored files",
	Long: `List stored files.

Examples:
  notepadcc files ls                          # All files by name
  notepadcc files ls --folder notes           # Files in one folder
  notepadcc files ls --filter draft --sort modified --desc`,
	Args: cobra.NoArgs,
	RunE: runFilesList,
}

var filesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty document",
	Args:  cobra.NoArgs,
	RunE:  runFilesNew,
}

var filesImportCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Copy local text files into the hub",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilesImport,
}

var filesExportCmd = &cobra.Command{
	Use:   "export <file-id>...",
	Short: "Write stored files to a local directory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilesExport,
}

var filesRemoveCmd = &cobra.Command{
	Use:     "rm <file-id>...",
	Aliases: []string{"delete"},
	Short:   "Delete stored files",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runFilesRemove,
}

var filesCatCmd = &cobra.Command{
	Use:   "cat <file-id>",
	Short: "Print a stored file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesCat,
}

var filesRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened files",
	Args:  cobra.NoArgs,
	RunE:  runFilesRecent,
}

func init() {
	filesListCmd.Flags().StringVar(&filesFolder, "folder", "", "only list files in this folder id")
	filesListCmd.Flags().StringVar(&filesFilter, "filter", "", "only list files whose name contains this text")
	filesListCmd.Flags().StringVar(&filesSort, "sort", string(storage.SortByName), "sort by name, modified or size")
	filesListCmd.Flags().BoolVar(&filesDesc, "desc", false, "sort in descending order")
	filesListCmd.Flags().BoolVar(&filesJSON, "json", false, "output as JSON")

	filesNewCmd.Flags().StringVar(&filesTargetFolder, "folder", storage.RootFolderID, "folder id to create the document in")
	filesImportCmd.Flags().StringVar(&filesTargetFolder, "folder", storage.RootFolderID, "folder id to import into")
	filesExportCmd.Flags().StringVar(&filesDir, "dir", "", "directory to write to (default: $XDG_DATA_HOME/notepadcc/exports)")
	filesRecentCmd.Flags().IntVarP(&filesLimit, "limit", "n", hub.DefaultRecentLimit, "maximum number of files to show")

	filesCmd.AddCommand(filesTreeCmd, filesListCmd, filesNewCmd, filesImportCmd,
		filesExportCmd, filesRemoveCmd, filesCatCmd, filesRecentCmd)
	rootCmd.AddCommand(filesCmd)
}

// withHub opens the store, runs fn against a hub service and closes the
// store.
func withHub(fn func(ctx context.Context, svc *hub.Service) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	return fn(context.Background(), hub.NewService(e.store, e.logger))
}

func runFilesTree(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		root, err := svc.Tree(ctx)
		if err != nil {
			return err
		}
		printNode(root, 0)
		return nil
	})
}

func printNode(n *hub.Node, depth int) {
	fmt.Printf("%s%s %s(%s)%s\n", strings.Repeat("  ", depth), n.Name, colorDim, n.FolderID, colorReset)
	for _, child := range n.Children {
		printNode(child, depth+1)
	}
}

type fileOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Folder     string `json:"folder"`
	Size       int64  `json:"size"`
	Format     string `json:"format"`
	MimeType   string `json:"mime_type"`
	ModifiedAt int64  `json:"modified_at"`
}

func runFilesList(cmd *cobra.Command, args []string) error {
	sortBy := storage.SortKey(filesSort)
	switch sortBy {
	case storage.SortByName, storage.SortByModified, storage.SortBySize:
	default:
		return fmt.Errorf("%w: unknown sort %q (want name, modified or size)", errInvalidArgs, filesSort)
	}

	return withHub(func(ctx context.Context, svc *hub.Service) error {
		files, err := svc.List(ctx, hub.ListOptions{
			FolderID:   filesFolder,
			NameFilter: filesFilter,
			SortBy:     sortBy,
			Descending: filesDesc,
		})
		if err != nil {
			return err
		}

		if filesJSON {
			return writeFilesJSON(ctx, svc, files)
		}
		printFiles(ctx, svc, files)
		return nil
	})
}

func writeFilesJSON(ctx context.Context, svc *hub.Service, files []storage.File) error {
	output := make([]fileOutput, 0, len(files))
	for _, f := range files {
		output = append(output, fileOutput{
			ID:         f.FileID,
			Name:       f.Name,
			Folder:     svc.FolderPath(ctx, f.FolderID),
			Size:       f.SizeBytes,
			Format:     f.Format,
			MimeType:   f.MimeType,
			ModifiedAt: f.ModifiedAtUnixMs,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(output)
}

func printFiles(ctx context.Context, svc *hub.Service, files []storage.File) {
	if len(files) == 0 {
		fmt.Println("No files found.")
		return
	}

	for _, f := range files {
		modified := time.UnixMilli(f.ModifiedAtUnixMs).Format("2006-01-02 15:04")
		fmt.Printf("%s%s%s  %-32s %10s  %s  %s%s%s\n",
			colorDim, f.FileID, colorReset,
			f.Name, hub.FormatSize(f.SizeBytes), modified,
			colorCyan, svc.FolderPath(ctx, f.FolderID), colorReset)
	}
	fmt.Printf("\n%d files\n", len(files))
}

func runFilesNew(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		f, err := svc.Create(ctx, filesTargetFolder)
		if err != nil {
			return err
		}
		fmt.Printf("%sCreated%s %s (%s)\n", colorGreen, colorReset, f.Name, f.FileID)
		return nil
	})
}

func runFilesImport(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		for _, path := range args {
			f, err := svc.Upload(ctx, filesTargetFolder, path)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}
			fmt.Printf("%sImported%s %s (%s, %s)\n", colorGreen, colorReset, f.Name, f.FileID, hub.FormatSize(f.SizeBytes))
		}
		return nil
	})
}

func runFilesExport(cmd *cobra.Command, args []string) error {
	dir := filesDir
	if dir == "" {
		dir = config.DefaultPaths().ExportDir()
	}

	return withHub(func(ctx context.Context, svc *hub.Service) error {
		paths, err := svc.Download(ctx, args, dir)
		for _, p := range paths {
			fmt.Println(p)
		}
		if err != nil {
			return err
		}
		if skipped := len(args) - len(paths); skipped > 0 {
			fmt.Fprintf(os.Stderr, "%sWarning:%s %d files not found\n", colorYellow, colorReset, skipped)
		}
		return nil
	})
}

func runFilesRemove(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		n, err := svc.BulkDelete(ctx, args)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d of %d files\n", n, len(args))
		return nil
	})
}

func runFilesCat(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		doc, err := svc.Open(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Print(doc.Content)
		return nil
	})
}

func runFilesRecent(cmd *cobra.Command, args []string) error {
	return withHub(func(ctx context.Context, svc *hub.Service) error {
		files, err := svc.Recent(ctx, filesLimit)
		if err != nil {
			return err
		}
		printFiles(ctx, svc, files)
		return nil
	})
}

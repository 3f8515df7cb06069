// Package service is the sync orchestrator: it moves setlists between the
// local library and the two remote containers.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaki95/setlist-sync/internal/blobstore"
	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/legacy"
	"github.com/jaki95/setlist-sync/internal/progress"
	"github.com/jaki95/setlist-sync/internal/resolver"
	"github.com/jaki95/setlist-sync/internal/schema"
)

const exportSuffix = ".json"

// Options selects containers and upload behavior.
type Options struct {
	LegacyContainer  string
	CurrentContainer string
	IncludeFileData  bool
}

// Service runs sync operations. Uploads and deletes are tracked by the upload
// tracker; listing, previews and downloads by the download tracker, so a
// preview may run while an upload is in flight.
type Service struct {
	store    blobstore.Store
	library  Library
	resolver *resolver.Resolver
	opts     Options

	upload   *progress.Tracker
	download *progress.Tracker
}

// New builds a Service over store and library.
func New(store blobstore.Store, library Library, opts Options) *Service {
	return &Service{
		store:    store,
		library:  library,
		resolver: resolver.New(library, library),
		opts:     opts,
		upload:   progress.NewTracker("upload"),
		download: progress.NewTracker("download"),
	}
}

// BlobName is the remote name a setlist is uploaded under.
func BlobName(setlistName string) string {
	return blobstore.SanitizeBlobName(setlistName) + exportSuffix
}

func (s *Service) UploadProgress() *progress.Tracker {
	return s.upload
}

func (s *Service) DownloadProgress() *progress.Tracker {
	return s.download
}

// UploadSetlist exports setlist with its resolvable songs and annotations and
// writes it to the current container.
func (s *Service) UploadSetlist(ctx context.Context, setlist *domain.Setlist) error {
	name := BlobName(setlist.Name)
	s.upload.Begin(progress.StageUploading, name, "Preparing setlist")

	data, err := s.exportSetlist(ctx, setlist)
	if err != nil {
		return s.fail(s.upload, err)
	}
	s.upload.Advance(0.25, "Encoded setlist")

	if err := s.store.EnsureContainer(ctx, s.opts.CurrentContainer); err != nil {
		return s.fail(s.upload, err)
	}
	s.upload.Advance(0.5, "Uploading")

	if err := s.store.PutBlob(ctx, s.opts.CurrentContainer, name, data, schema.ContentType); err != nil {
		return s.fail(s.upload, err)
	}

	slog.Info("Uploaded setlist", "setlist", setlist.ID, "blob", name, "songs", len(setlist.SongIDs), "bytes", len(data))
	s.upload.Complete("Uploaded " + name)
	return nil
}

// UploadSetlistByID loads a stored setlist and uploads it.
func (s *Service) UploadSetlistByID(ctx context.Context, id string) error {
	setlist, err := s.library.LoadSetlist(ctx, id)
	if err != nil {
		return err
	}
	return s.UploadSetlist(ctx, setlist)
}

func (s *Service) exportSetlist(ctx context.Context, setlist *domain.Setlist) ([]byte, error) {
	songs, err := setlist.ResolveSongs(ctx, s.library)
	if err != nil {
		return nil, fmt.Errorf("resolving songs: %w", err)
	}

	for _, song := range songs {
		profiles, err := s.library.LoadAnnotationProfiles(ctx, song.FullFileName())
		if err != nil {
			return nil, fmt.Errorf("loading annotations for %s: %w", song.FullFileName(), err)
		}
		song.AnnotationProfiles = profiles

		if s.opts.IncludeFileData && len(song.FileData) == 0 {
			data, err := s.library.ReadSongFile(ctx, song)
			if err != nil {
				slog.Warn("Uploading song without file data", "song", song.ID, "error", err)
				continue
			}
			song.FileData = data
		}
	}

	return schema.Encode(schema.ExportSetlist(setlist, songs, s.opts.IncludeFileData))
}

// ListLegacyItems lists the blobs of the legacy container.
func (s *Service) ListLegacyItems(ctx context.Context) ([]string, error) {
	return s.list(ctx, s.opts.LegacyContainer)
}

// ListCurrentItems lists the blobs of the current container.
func (s *Service) ListCurrentItems(ctx context.Context) ([]string, error) {
	return s.list(ctx, s.opts.CurrentContainer)
}

func (s *Service) list(ctx context.Context, container string) ([]string, error) {
	s.download.Begin(progress.StageListing, "", "Listing "+container)

	names, err := s.store.ListBlobs(ctx, container)
	if err != nil {
		return nil, s.fail(s.download, err)
	}

	s.download.Complete(fmt.Sprintf("Found %d items", len(names)))
	return names, nil
}

// PreviewLegacyItem downloads and decodes one legacy blob without importing it.
func (s *Service) PreviewLegacyItem(ctx context.Context, name string) (*domain.LegacySetlist, error) {
	s.download.Begin(progress.StagePreviewing, name, "Downloading "+name)

	data, err := s.store.GetBlob(ctx, s.opts.LegacyContainer, name)
	if err != nil {
		return nil, s.fail(s.download, err)
	}
	s.download.Advance(0.5, "Decoding "+name)

	setlist, err := legacy.Decode(data)
	if err != nil {
		return nil, s.fail(s.download, err)
	}

	s.download.Complete(fmt.Sprintf("Decoded %d songs", len(setlist.Songs)))
	return setlist, nil
}

// ImportLegacyItem resolves a previewed legacy songlist into the local
// library and stores the resulting setlist.
func (s *Service) ImportLegacyItem(ctx context.Context, item *domain.LegacySetlist) (*domain.Setlist, resolver.Report, error) {
	setlist, report, err := s.resolver.ImportLegacy(ctx, item)
	if err != nil {
		return nil, report, err
	}
	if err := s.saveSetlist(ctx, setlist); err != nil {
		return nil, report, err
	}
	return setlist, report, nil
}

// DownloadAndImportCurrentItem downloads one export from the current
// container and imports it. Nothing local changes unless the download and
// decode both succeed.
func (s *Service) DownloadAndImportCurrentItem(ctx context.Context, name string) (*domain.Setlist, resolver.Report, error) {
	s.download.Begin(progress.StageDownloading, name, "Downloading "+name)

	data, err := s.store.GetBlob(ctx, s.opts.CurrentContainer, name)
	if err != nil {
		return nil, resolver.Report{}, s.fail(s.download, err)
	}
	s.download.Advance(0.5, "Decoding "+name)

	export, err := schema.Decode(data)
	if err != nil {
		return nil, resolver.Report{}, s.fail(s.download, err)
	}
	s.download.Advance(0.6, fmt.Sprintf("Importing %d songs", len(export.Songs)))

	setlist, report, err := s.resolver.ImportExport(ctx, export)
	if err != nil {
		return nil, report, s.fail(s.download, err)
	}
	if err := s.saveSetlist(ctx, setlist); err != nil {
		return nil, report, s.fail(s.download, err)
	}

	s.download.Complete("Imported " + setlist.Name)
	return setlist, report, nil
}

// DeleteCurrentItem removes one blob from the current container.
func (s *Service) DeleteCurrentItem(ctx context.Context, name string) error {
	s.upload.Begin(progress.StageDeleting, name, "Deleting "+name)

	if err := s.store.DeleteBlob(ctx, s.opts.CurrentContainer, name); err != nil {
		return s.fail(s.upload, err)
	}

	slog.Info("Deleted remote setlist", "blob", name)
	s.upload.Complete("Deleted " + name)
	return nil
}

func (s *Service) saveSetlist(ctx context.Context, setlist *domain.Setlist) error {
	if err := s.library.SaveSetlist(ctx, setlist); err != nil {
		return fmt.Errorf("saving setlist: %w", err)
	}
	if err := s.library.ReloadLocalSongs(ctx); err != nil {
		slog.Warn("Failed to reload local songs", "error", err)
	}
	slog.Info("Imported setlist", "setlist", setlist.ID, "name", setlist.Name, "songs", len(setlist.SongIDs))
	return nil
}

func (s *Service) fail(tracker *progress.Tracker, err error) error {
	slog.Error("Sync operation failed", "direction", tracker.Name(), "error", err)
	tracker.Fail(err)
	return err
}

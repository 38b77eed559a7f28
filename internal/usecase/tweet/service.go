package tweet

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
)

const bloomWarmUpBatch = 1000

type Service struct {
	tweetRepo   domain.TweetRepository
	accountRepo domain.AccountRepository
	likeBatcher domain.LikeBatcher
	bloomRepo   domain.BloomRepository
}

var _ domain.TweetUsecase = (*Service)(nil)

// NewService will create a new tweet service object
func NewService(t domain.TweetRepository, a domain.AccountRepository, lb domain.LikeBatcher, b domain.BloomRepository) *Service {
	return &Service{
		tweetRepo:   t,
		accountRepo: a,
		likeBatcher: lb,
		bloomRepo:   b,
	}
}

func (s *Service) Fetch(ctx context.Context, skip, limit int64) ([]domain.Tweet, error) {
	res, err := s.tweetRepo.Fetch(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if err := s.fillAccountDetails(ctx, res); err != nil {
		return nil, err
	}
	for i := range res {
		s.applyPendingLikes(&res[i])
	}
	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Tweet, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return domain.Tweet{}, err
	}

	res, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Tweet{}, err
	}

	out := []domain.Tweet{res}
	if err := s.fillAccountDetails(ctx, out); err != nil {
		return domain.Tweet{}, err
	}
	s.applyPendingLikes(&out[0])
	return out[0], nil
}

func (s *Service) Store(ctx context.Context, t *domain.Tweet) error {
	if err := validateContent(t.Content); err != nil {
		return err
	}

	author, err := s.accountRepo.GetByID(ctx, t.Account.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	} else if err != nil {
		return err
	}

	t.LikeCount = 0
	if err := s.tweetRepo.Store(ctx, t); err != nil {
		return err
	}
	t.Account = author

	if err := s.bloomRepo.Add(ctx, t.ID); err != nil {
		logrus.Errorf("failed to add tweet %d to bloom filter: %v", t.ID, err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, t *domain.Tweet) error {
	if err := validateContent(t.Content); err != nil {
		return err
	}

	existing, err := s.tweetRepo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing.Account.ID != t.Account.ID {
		return domain.ErrForbidden
	}

	existing.Content = t.Content
	existing.UpdatedAt = time.Now()
	if err := s.tweetRepo.Update(ctx, &existing); err != nil {
		return err
	}

	out := []domain.Tweet{existing}
	if err := s.fillAccountDetails(ctx, out); err != nil {
		return err
	}
	s.applyPendingLikes(&out[0])
	*t = out[0]
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, accountID int64) error {
	existing, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Account.ID != accountID {
		return domain.ErrForbidden
	}
	return s.tweetRepo.Delete(ctx, id)
}

// Like 只校验推文存在，点赞本身进入内存聚合，不等待数据库
func (s *Service) Like(ctx context.Context, id int64) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if _, err := s.tweetRepo.GetByID(ctx, id); err != nil {
		return err
	}
	s.likeBatcher.AddLike(id)
	return nil
}

func (s *Service) InitBloomFilter(ctx context.Context) error {
	var (
		cursor int64
		total  int
	)
	for {
		ids, err := s.tweetRepo.FetchIDs(ctx, cursor, bloomWarmUpBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += len(ids)
		cursor = ids[len(ids)-1]
	}
	// 全部 id 写入后才开始信任"不存在"的判定
	if err := s.bloomRepo.MarkReady(ctx); err != nil {
		return err
	}
	logrus.Infof("bloom filter warmed up with %d tweets", total)
	return nil
}

func (s *Service) InitRecentFeed(ctx context.Context) error {
	return s.tweetRepo.WarmRecent(ctx)
}

// mustExist 布隆过滤器判定绝对不存在时直接返回 ErrNotFound，过滤器故障时放行
func (s *Service) mustExist(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter unavailable, falling through: %v", err)
		return nil
	}
	if !exists {
		logrus.Debugf("bloom filter says tweet %d does not exist", id)
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) applyPendingLikes(t *domain.Tweet) {
	t.LikeCount += s.likeBatcher.Pending(t.ID)
}

// fillAccountDetails 一次批量查询作者信息；作者已不存在时只保留ID
func (s *Service) fillAccountDetails(ctx context.Context, data []domain.Tweet) error {
	if len(data) == 0 {
		return nil
	}

	accountIDs := make([]int64, 0, len(data))
	seen := make(map[int64]bool)
	for _, t := range data {
		if !seen[t.Account.ID] {
			accountIDs = append(accountIDs, t.Account.ID)
			seen[t.Account.ID] = true
		}
	}

	res, err := s.accountRepo.GetByIDs(ctx, accountIDs)
	if err != nil {
		return err
	}
	accounts := make(map[int64]domain.Account, len(res))
	for _, a := range res {
		accounts[a.ID] = a
	}

	for i := range data {
		if a, ok := accounts[data[i].Account.ID]; ok {
			data[i].Account = a
		}
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) > domain.TweetMaxLength {
		return domain.ErrBadParamInput
	}
	return nil
}

package constants

// Read-side listing queries executed over sqlx. Mutations go through the
// GORM transaction path; these stay read-only and paginated.

const ListParticipantsQuery = `
	SELECT p.user_id,
	       u.username,
	       u.first_name,
	       u.last_name,
	       u.profile_photo_url,
	       p.role,
	       p.participation_status,
	       p.attendance_status,
	       p.joined_at,
	       u.verification_count,
	       COUNT(*) OVER() AS total_count
	FROM activity_participants p
	JOIN users u ON u.id = p.user_id
	WHERE p.activity_id = $1
	  AND ($2::text IS NULL OR p.participation_status = $2)
	  AND ($3::text IS NULL OR p.role = $3)
	ORDER BY p.joined_at ASC
	LIMIT $4 OFFSET $5
`

const UserActivitiesQuery = `
	SELECT a.id AS activity_id,
	       a.title,
	       a.scheduled_at,
	       a.location_name,
	       a.city,
	       a.organizer_user_id,
	       ou.username AS organizer_username,
	       a.current_participants_count,
	       a.max_participants,
	       a.activity_type,
	       COALESCE(p.role, 'organizer') AS role,
	       p.participation_status,
	       p.attendance_status,
	       p.joined_at,
	       COUNT(*) OVER() AS total_count
	FROM activities a
	JOIN users ou ON ou.id = a.organizer_user_id
	LEFT JOIN activity_participants p
	       ON p.activity_id = a.id AND p.user_id = $1
	      AND p.id = (SELECT p2.id
	                  FROM activity_participants p2
	                  WHERE p2.activity_id = a.id AND p2.user_id = $1
	                  ORDER BY p2.joined_at DESC
	                  LIMIT 1)
	WHERE (p.id IS NOT NULL OR a.organizer_user_id = $1)
	  AND ($2::text IS NULL
	       OR ($2 = 'upcoming'  AND a.scheduled_at >  now())
	       OR ($2 = 'past'      AND a.scheduled_at <= now())
	       OR ($2 = 'organized' AND a.organizer_user_id = $1)
	       OR ($2 = 'attended'  AND p.attendance_status = 'attended'))
	  AND ($3::text IS NULL OR p.participation_status = $3)
	ORDER BY a.scheduled_at DESC
	LIMIT $4 OFFSET $5
`

const WaitlistQuery = `
	SELECT w.id AS waitlist_id,
	       w.user_id,
	       u.username,
	       u.first_name,
	       u.profile_photo_url,
	       w.position,
	       w.created_at,
	       w.notified_at,
	       COUNT(*) OVER() AS total_count
	FROM activity_waitlist w
	JOIN users u ON u.id = w.user_id
	WHERE w.activity_id = $1
	ORDER BY w.position ASC
	LIMIT $2 OFFSET $3
`

const ReceivedInvitationsQuery = `
	SELECT i.id AS invitation_id,
	       i.activity_id,
	       a.title AS activity_title,
	       a.scheduled_at AS activity_scheduled_at,
	       i.invited_by_user_id,
	       bu.username AS invited_by_username,
	       CASE WHEN i.status = 'pending' AND i.expires_at < now()
	            THEN 'expired' ELSE i.status END AS status,
	       i.message,
	       i.created_at AS invited_at,
	       i.expires_at,
	       i.responded_at,
	       COUNT(*) OVER() AS total_count
	FROM activity_invitations i
	JOIN activities a ON a.id = i.activity_id
	JOIN users bu ON bu.id = i.invited_by_user_id
	WHERE i.invited_user_id = $1
	  AND ($2::text IS NULL OR
	       (CASE WHEN i.status = 'pending' AND i.expires_at < now()
	             THEN 'expired' ELSE i.status END) = $2)
	ORDER BY i.created_at DESC
	LIMIT $3 OFFSET $4
`

const SentInvitationsQuery = `
	SELECT i.id AS invitation_id,
	       i.activity_id,
	       a.title AS activity_title,
	       i.invited_user_id,
	       iu.username AS invited_username,
	       CASE WHEN i.status = 'pending' AND i.expires_at < now()
	            THEN 'expired' ELSE i.status END AS status,
	       i.message,
	       i.created_at AS invited_at,
	       i.expires_at,
	       i.responded_at,
	       COUNT(*) OVER() AS total_count
	FROM activity_invitations i
	JOIN activities a ON a.id = i.activity_id
	JOIN users iu ON iu.id = i.invited_user_id
	WHERE i.invited_by_user_id = $1
	  AND ($2::uuid IS NULL OR i.activity_id = $2)
	  AND ($3::text IS NULL OR
	       (CASE WHEN i.status = 'pending' AND i.expires_at < now()
	             THEN 'expired' ELSE i.status END) = $3)
	ORDER BY i.created_at DESC
	LIMIT $4 OFFSET $5
`

const PendingVerificationActivitiesQuery = `
	SELECT a.id AS activity_id,
	       a.title,
	       a.scheduled_at,
	       COUNT(*) OVER() AS total_count
	FROM activities a
	JOIN activity_participants me
	  ON me.activity_id = a.id
	 AND me.user_id = $1
	 AND me.attendance_status = 'attended'
	WHERE EXISTS (
	    SELECT 1
	    FROM activity_participants o
	    WHERE o.activity_id = a.id
	      AND o.user_id <> $1
	      AND o.attendance_status = 'attended'
	      AND NOT EXISTS (
	          SELECT 1
	          FROM attendance_confirmations c
	          WHERE c.activity_id = a.id
	            AND c.confirmed_user_id = o.user_id
	            AND c.confirmer_user_id = $1))
	ORDER BY a.scheduled_at DESC
	LIMIT $2 OFFSET $3
`

const UnconfirmedParticipantsQuery = `
	SELECT o.user_id,
	       u.username,
	       u.profile_photo_url
	FROM activity_participants o
	JOIN users u ON u.id = o.user_id
	WHERE o.activity_id = $1
	  AND o.user_id <> $2
	  AND o.attendance_status = 'attended'
	  AND NOT EXISTS (
	      SELECT 1
	      FROM attendance_confirmations c
	      WHERE c.activity_id = o.activity_id
	        AND c.confirmed_user_id = o.user_id
	        AND c.confirmer_user_id = $2)
	ORDER BY u.username ASC
`
